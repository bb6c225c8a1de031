// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/ik5/oplpbx/database"
	"github.com/ik5/oplpbx/formats"
	"github.com/ik5/oplpbx/formats/catalog"
	"github.com/ik5/oplpbx/opl"
)

// Decoder is what a session needs from a loaded module. *formats.Module
// implements it.
//
// SongLength is destructive: it disturbs playback state and must only be
// called right after Rewind. A Decoder that also implements io.Closer is
// closed on teardown.
type Decoder interface {
	Update() bool
	Rewind(subsong int)
	RefreshRate() float64
	Info() formats.Info
	SongLength(subsong int) uint64
	Seek(ms uint64)
}

// Opener opens the module at path, binding it to chip. db may be nil.
type Opener func(path string, chip opl.Chip, db *database.Database) (Decoder, error)

// SynthFactory builds the synthesizer for a sample rate. A synthesizer
// that implements io.Closer is closed on teardown.
type SynthFactory func(sampleRate int) opl.Chip

// Options configure a Session. Zero fields take the defaults.
type Options struct {
	// Opener defaults to OpenModule with the built-in format catalog.
	Opener Opener
	// NewSynth defaults to SurroundSynth.
	NewSynth SynthFactory
	// Database returns the format database; it defaults to
	// database.Shared, which loads adplug.db on first use.
	Database func() *database.Database
	// Logger defaults to a logger that discards everything.
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Opener == nil {
		o.Opener = OpenModule(catalog.Default())
	}
	if o.NewSynth == nil {
		o.NewSynth = SurroundSynth
	}
	if o.Database == nil {
		o.Database = database.Shared
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// OpenModule returns an Opener that loads modules with the formats in reg.
func OpenModule(reg *formats.Registry) Opener {
	return func(path string, chip opl.Chip, db *database.Database) (Decoder, error) {
		m, err := formats.Open(path, chip, reg, db)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		return m, nil
	}
}

// SurroundSynth builds the default synthesizer: two mono OPL2 emulators
// combined into a detuned stereo pair.
func SurroundSynth(sampleRate int) opl.Chip {
	return opl.NewSurround(
		opl.NewEmulator(sampleRate),
		opl.NewEmulator(sampleRate),
		opl.DefaultSurroundOffset,
	)
}
