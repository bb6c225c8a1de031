// SPDX-License-Identifier: EPL-2.0

// Package oplpbx plays AdPlug-style OPL music modules.
//
// Modules (IMF, DOSBox DRO, RdosPlay RAW and VGM) drive an emulated
// YM3812. A playback.Session renders the music in fixed chunks of 1024
// stereo frames; the host package wraps a session in the integer status
// API used by frontends.
//
// # Quick Start
//
// The simplest way to hear a module is RenderStereo16:
//
//	pcm, rate, err := oplpbx.RenderStereo16("keen.imf", oplpbx.RenderOptions{})
//	// pcm holds interleaved 16-bit stereo samples at rate Hz
//
// RenderToMono16 also mixes down and resamples, for telephony or analysis:
//
//	pcm, rate, err := oplpbx.RenderToMono16("keen.imf", 8000, oplpbx.RenderOptions{})
//
// # Streaming
//
// Open returns a Stream, an io.Reader of 16-bit little-endian stereo PCM.
// It can be fed to the export package to produce WAV or AIFF files, or
// wrapped with audio.NewPCM16Source to join an audio pipeline:
//
//	st, _ := oplpbx.Open("song.dro", oplpbx.RenderOptions{LimitMs: 30000})
//	defer st.Close()
//	export.WriteFile("song.wav", st, st.Session.SampleRate(), 2)
//
// # Packages
//
//   - playback: session lifecycle, render loop, position and metadata
//   - host: status-code API over a session
//   - formats: module loaders and the format registry
//   - opl: chip interface, OPL2 emulator and surround pairing
//   - database: the AdPlug module information database
//   - audio: float PCM pipeline (resampling, mono mixing)
//   - export, reference: writing renderings and comparing with recordings
//   - luahost: Lua scripting of the host API
package oplpbx
