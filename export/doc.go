// SPDX-License-Identifier: EPL-2.0

// Package export writes rendered 16-bit PCM to WAV or AIFF files using the
// go-audio encoders.
package export
