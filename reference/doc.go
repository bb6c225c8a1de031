// SPDX-License-Identifier: EPL-2.0

// Package reference decodes recordings of real hardware or other players
// and compares them with audio rendered by the engine.
//
// WAV and AIFF files are read with go-audio, MP3 with go-mp3 and Ogg
// Vorbis with oggvorbis. Every decoder yields an audio.Source, so a
// recording can be resampled and mixed down to match a rendering before
// Compare measures the difference.
package reference
