// SPDX-License-Identifier: EPL-2.0

// Package formats is the decoder engine: it recognises OPL music module
// files and turns them into players that emit register writes tick by tick.
//
// Each supported format lives in its own subpackage (imf, dro, raw, vgm)
// and implements the Player interface. Formats are collected in a Registry
// and opened through Open, which mirrors the classic AdPlug factory: the
// formats whose extension matches the file are tried first, then every
// other registered format.
//
// # Opening a Module
//
//	chip := opl.NewEmulator(44100)
//	reg := catalog.Default()
//	m, err := formats.Open("/music/keen4.imf", chip, reg, database.Shared())
//	if errors.Is(err, formats.ErrUnrecognized) {
//	    // no registered format accepted the file
//	}
//
//	m.Rewind(0)
//	for m.Update() {
//	    // render 1/m.RefreshRate() seconds of audio from chip
//	}
//
// # Song Length
//
// Module.SongLength measures a subsong by playing it against a silent chip.
// The measurement rewinds the player while its output goes nowhere, so the
// real chip misses the register writes of that rewind. Callers must query
// the length once, right after selecting a subsong, and never during
// playback.
//
// # Quirks
//
// A format database record for the file is turned into Quirks and handed
// to the player at load time. Players use it to override the replay rate
// and to fill in missing titles and authors.
package formats
