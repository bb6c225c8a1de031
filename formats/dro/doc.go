// SPDX-License-Identifier: EPL-2.0

// Package dro plays DOSBox Raw OPL captures.
//
// Version 1.0 files store a byte stream of register/value pairs with
// inline delay and chip select codes. Version 2.0 files store fixed
// two-byte pairs whose register comes from a code map, with the high bit
// of the code selecting the second chip. Both versions tick at 1000 Hz
// divided by the current delay. Version 2.0 files may carry a trailing
// tag block with title, author and description.
package dro
