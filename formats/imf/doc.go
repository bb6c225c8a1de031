// SPDX-License-Identifier: EPL-2.0

// Package imf plays id Software Music Format files (.imf, .wlf).
//
// IMF files are a flat list of 4-byte commands: register, value and a
// 16-bit little-endian delay in ticks. Two layouts exist:
//   - type 0: the whole file is command data
//   - type 1: a 16-bit byte count precedes the commands, optionally
//     followed by a 0x1A tag block with title, author and remarks
//
// Files may also start with an "ADLIB\x01" header carrying a track and
// game name. Headerless files carry no signature, so they are only
// accepted when their name ends in .imf or .wlf.
//
// The tick rate is not stored in the file: .wlf files (Wolfenstein 3-D)
// play at 700 Hz, everything else at 560 Hz, unless the format database
// has a clock speed record for the file.
package imf
