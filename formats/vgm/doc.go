// SPDX-License-Identifier: EPL-2.0

// Package vgm plays the OPL family streams of Video Game Music files.
//
// Plain (.vgm) and gzip compressed (.vgz) files are accepted. Writes for
// the YM3812, YM3526, Y8950 and both ports of the YMF262 are forwarded to
// the chip; commands for every other chip are skipped. GD3 tags supply
// the title, author and notes. When the song reaches its end command the
// stream restarts at the loop point and the player reports the end.
package vgm
