// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/oplpbx/database"
	"github.com/ik5/oplpbx/opl"
)

// maxSongLengthMs caps SongLength for songs that never end.
const maxSongLengthMs = 10 * 60 * 1000

// Module is a loaded module file bound to a chip.
type Module struct {
	name   string
	format string
	key    database.Key
	player Player
}

// Open reads path and loads it with the first registered format that
// accepts it. db may be nil.
func Open(path string, chip opl.Chip, reg *Registry, db *database.Database) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module: %w", err)
	}
	return Load(path, data, chip, reg, db)
}

// Load is Open for data already in memory; name is only used to pick the
// formats to try first.
func Load(name string, data []byte, chip opl.Chip, reg *Registry, db *database.Database) (*Module, error) {
	base := filepath.Base(name)
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w: %w", base, ErrUnrecognized, ErrEmptyFile)
	}

	key := database.KeyOf(data)
	q := quirksFor(db, key)

	var errs []error
	for _, f := range reg.Candidates(name) {
		p := f.New(chip)
		if err := p.Load(name, data, q); err != nil {
			errs = append(errs, err)
			continue
		}
		p.Rewind(0)
		return &Module{name: base, format: f.Name, key: key, player: p}, nil
	}

	return nil, errors.Join(fmt.Errorf("%s: %w", base, ErrUnrecognized), errors.Join(errs...))
}

func quirksFor(db *database.Database, key database.Key) Quirks {
	if db == nil {
		return Quirks{}
	}
	rec, ok := db.Lookup(key)
	if !ok {
		return Quirks{}
	}

	var q Quirks
	switch rec.Type {
	case database.SongInfo:
		q.Title = rec.Title
		q.Author = rec.Author
	case database.ClockSpeed:
		q.RefreshHz = float64(rec.ClockHz)
	}
	return q
}

func (m *Module) Name() string       { return m.name }
func (m *Module) Format() string     { return m.format }
func (m *Module) Key() database.Key  { return m.key }
func (m *Module) Player() Player     { return m.player }
func (m *Module) Info() Info         { return m.player.Info() }
func (m *Module) Rewind(subsong int) { m.player.Rewind(subsong) }

// Update plays one tick; see Player.Update.
func (m *Module) Update() bool {
	return m.player.Update()
}

func (m *Module) RefreshRate() float64 {
	return m.player.RefreshRate()
}

// SongLength returns the length of subsong in milliseconds, capped at ten
// minutes. The player is left rewound to subsong, but the rewind happened
// against a silent chip: the real chip did not see its register writes.
func (m *Module) SongLength(subsong int) uint64 {
	saved := m.player.SetChip(opl.NewSilent(false))
	defer m.player.SetChip(saved)

	m.player.Rewind(subsong)
	var ms float64
	for m.player.Update() && ms < maxSongLengthMs {
		ms += 1000 / m.player.RefreshRate()
	}
	m.player.Rewind(subsong)

	return uint64(ms)
}

// Seek restarts the current subsong and plays ticks until ms is reached
// or the song ends.
func (m *Module) Seek(ms uint64) {
	m.player.Rewind(-1)
	var pos float64
	for pos < float64(ms) && m.player.Update() {
		pos += 1000 / m.player.RefreshRate()
	}
}

// Close detaches the player from its chip.
func (m *Module) Close() error {
	m.player.SetChip(opl.NewSilent(false))
	return nil
}
