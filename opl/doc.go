// SPDX-License-Identifier: EPL-2.0

// Package opl provides the synthesizer backends that turn OPL register
// writes into 16-bit PCM.
//
// All backends implement the Chip interface. Module players write
// registers through Chip.Write on every tick and the playback session
// pulls PCM out with Chip.Update.
//
// # Backends
//
// The package ships three chips:
//   - Emulator: a mono YM3812 (OPL2) FM model
//   - Surround: two mono chips combined into a stereo signal, the second
//     one slightly detuned to widen the image
//   - Silent: accepts every write and renders silence
//
// A typical stereo setup, matching what the playback session builds:
//
//	chip := opl.NewSurround(
//	    opl.NewEmulator(44100),
//	    opl.NewEmulator(44100),
//	    opl.DefaultSurroundOffset,
//	)
//	chip.Init()
//	chip.Write(0x01, 0x20) // enable waveform select
//
//	buf := make([]int16, 2*1024)
//	chip.Update(buf, 1024) // 1024 interleaved stereo frames
//
// # Sample Layout
//
// Mono chips write exactly frames samples into the buffer. Stereo chips
// (Stereo() == true) write 2*frames interleaved samples, left first.
package opl
