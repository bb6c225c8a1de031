// SPDX-License-Identifier: EPL-2.0

// Package raw plays RdosPlay RAW captures ("RAWADATA").
//
// The file is a clock word followed by (value, register) byte pairs.
// Register 0 is a delay, register 2 either changes the clock (value 0,
// new clock in the following pair) or selects a chip, and 0xFF/0xFF ends
// the song. The replay rate is the PIT frequency divided by the clock.
package raw
