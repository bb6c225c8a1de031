// SPDX-License-Identifier: EPL-2.0

package formats

import "github.com/ik5/oplpbx/opl"

// Info is the song metadata a player reports.
type Info struct {
	Title       string
	Author      string
	Description string
	Type        string
	Speed       int
	Subsongs    int
}

// Quirks are per-title corrections taken from the format database.
type Quirks struct {
	Title     string
	Author    string
	RefreshHz float64 // replay rate override; 0 keeps the format default
}

// Player drives an OPL chip from a loaded module.
type Player interface {
	// Load parses data read from the file called name. It returns
	// ErrUnrecognized (possibly wrapped) when the data is not in the
	// player's format.
	Load(name string, data []byte, q Quirks) error
	// Update plays one tick. It returns false once the current subsong
	// has ended.
	Update() bool
	// Rewind resets playback to the start of subsong; -1 keeps the
	// current subsong.
	Rewind(subsong int)
	// RefreshRate returns the current tick rate in Hz.
	RefreshRate() float64
	// Info returns the song metadata.
	Info() Info
	// SetChip replaces the chip receiving writes and returns the old one.
	SetChip(c opl.Chip) opl.Chip
}

// Base carries the state every player shares. Players embed it.
type Base struct {
	Chip    opl.Chip
	Subsong int
	Quirks  Quirks
}

func (b *Base) SetChip(c opl.Chip) opl.Chip {
	old := b.Chip
	b.Chip = c
	return old
}

// Select resolves a Rewind argument: -1 keeps the current subsong.
func (b *Base) Select(subsong int) int {
	if subsong >= 0 {
		b.Subsong = subsong
	}
	return b.Subsong
}

// Describe applies the database title and author where the file had none.
func (b *Base) Describe(info Info) Info {
	if info.Title == "" {
		info.Title = b.Quirks.Title
	}
	if info.Author == "" {
		info.Author = b.Quirks.Author
	}
	return info
}
