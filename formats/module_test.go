// SPDX-License-Identifier: EPL-2.0

package formats_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/oplpbx/database"
	"github.com/ik5/oplpbx/formats"
	"github.com/ik5/oplpbx/formats/catalog"
	"github.com/ik5/oplpbx/internal/audiotest"
	"github.com/ik5/oplpbx/opl"
)

// tickPlayer accepts "TICK<n>" and plays n ticks at 50 Hz, writing the
// tick number to register 0xa0 each time.
type tickPlayer struct {
	formats.Base
	ticks int
	tick  int
}

func (p *tickPlayer) Load(_ string, data []byte, q formats.Quirks) error {
	if !bytes.HasPrefix(data, []byte("TICK")) || len(data) < 5 {
		return fmt.Errorf("tick: %w", formats.ErrUnrecognized)
	}
	p.Quirks = q
	p.ticks = int(data[4])
	return nil
}

func (p *tickPlayer) Update() bool {
	p.Chip.Write(0xa0, p.tick)
	p.tick++
	return p.tick < p.ticks
}

func (p *tickPlayer) Rewind(subsong int) {
	p.Select(subsong)
	p.tick = 0
	p.Chip.Init()
}

func (p *tickPlayer) RefreshRate() float64 { return 50 }

func (p *tickPlayer) Info() formats.Info {
	return p.Describe(formats.Info{Type: "Tick", Subsongs: 1})
}

var tickFormat = formats.Format{
	Name:       "TICK",
	Extensions: []string{".tck"},
	New:        func(chip opl.Chip) formats.Player { return &tickPlayer{Base: formats.Base{Chip: chip}} },
}

func tickRegistry() *formats.Registry {
	reg := catalog.Default()
	reg.Register(tickFormat)
	return reg
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	chip := audiotest.NewChip(true, 0, nil)

	_, err := formats.Load("empty.tck", nil, chip, tickRegistry(), nil)
	if !errors.Is(err, formats.ErrUnrecognized) || !errors.Is(err, formats.ErrEmptyFile) {
		t.Errorf("Load(empty) error = %v, want ErrUnrecognized and ErrEmptyFile", err)
	}

	_, err = formats.Load("noise.bin", []byte("definitely not music"), chip, tickRegistry(), nil)
	if !errors.Is(err, formats.ErrUnrecognized) {
		t.Errorf("Load(noise) error = %v, want ErrUnrecognized", err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := formats.Open(filepath.Join(t.TempDir(), "nope.imf"), audiotest.NewChip(true, 0, nil), tickRegistry(), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open() error = %v, want os.ErrNotExist", err)
	}
}

func TestOpen_ByContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "song.bin")
	if err := os.WriteFile(path, []byte("TICK\x05"), 0o600); err != nil {
		t.Fatal(err)
	}

	chip := audiotest.NewChip(true, 0, nil)
	m, err := formats.Open(path, chip, tickRegistry(), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if m.Format() != "TICK" || m.Name() != "song.bin" {
		t.Errorf("Format/Name = %s/%s", m.Format(), m.Name())
	}
	if chip.Inits != 1 {
		t.Errorf("chip inits after open = %d, want 1 (rewind)", chip.Inits)
	}
}

func TestLoad_IMFByExtension(t *testing.T) {
	t.Parallel()

	data := make([]byte, 2+8)
	binary.LittleEndian.PutUint16(data, 8)
	copy(data[2:], []byte{0xb0, 0x32, 0x01, 0x00, 0xb0, 0x12, 0x00, 0x00})

	m, err := formats.Load("keen.imf", data, audiotest.NewChip(true, 0, nil), catalog.Default(), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Format() != "IMF" {
		t.Errorf("Format() = %s, want IMF", m.Format())
	}
}

func TestLoad_DatabaseQuirks(t *testing.T) {
	t.Parallel()

	data := []byte("TICK\x03")
	db := database.New()
	db.Insert(database.Record{
		Key:    database.KeyOf(data),
		Type:   database.SongInfo,
		Title:  "Known Song",
		Author: "Known Author",
	})

	m, err := formats.Load("a.tck", data, audiotest.NewChip(true, 0, nil), tickRegistry(), db)
	if err != nil {
		t.Fatal(err)
	}
	info := m.Info()
	if info.Title != "Known Song" || info.Author != "Known Author" {
		t.Errorf("Info() = %+v, want database title and author", info)
	}
}

func TestModule_SongLength(t *testing.T) {
	t.Parallel()

	chip := audiotest.NewChip(true, 0, nil)
	m, err := formats.Load("a.tck", []byte("TICK\x0b"), chip, tickRegistry(), nil)
	if err != nil {
		t.Fatal(err)
	}
	writes, inits := len(chip.Writes), chip.Inits

	// The last tick reports the end and adds no time.
	if got := m.SongLength(0); got != 200 {
		t.Errorf("SongLength() = %d, want 200", got)
	}
	if len(chip.Writes) != writes || chip.Inits != inits {
		t.Errorf("SongLength touched the real chip: writes %d->%d inits %d->%d",
			writes, len(chip.Writes), inits, chip.Inits)
	}

	// The player is rewound and plays into the real chip again.
	m.Update()
	if chip.Last(0xa0) != 0 {
		t.Errorf("first tick after SongLength wrote %d, want 0", chip.Last(0xa0))
	}
}

func TestModule_Seek(t *testing.T) {
	t.Parallel()

	chip := audiotest.NewChip(true, 0, nil)
	m, err := formats.Load("a.tck", []byte("TICK\x64"), chip, tickRegistry(), nil)
	if err != nil {
		t.Fatal(err)
	}

	m.Update()
	m.Update()
	m.Seek(100)
	if got := chip.Last(0xa0); got != 4 {
		t.Errorf("last tick after Seek(100) = %d, want 4", got)
	}

	// Seeking past the end stops at the end.
	m.Seek(1_000_000)
	if got := chip.Last(0xa0); got != 99 {
		t.Errorf("last tick after long seek = %d, want 99", got)
	}
}

func TestModule_Close(t *testing.T) {
	t.Parallel()

	chip := audiotest.NewChip(true, 0, nil)
	m, err := formats.Load("a.tck", []byte("TICK\x05"), chip, tickRegistry(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	n := len(chip.Writes)
	m.Update()
	if len(chip.Writes) != n {
		t.Error("closed module still writes to its chip")
	}
}

func TestParseTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		data  string
		limit int
		want  formats.Tags
	}{
		{"all", "\x1aTitle\x00\x1bAuthor\x00\x1cDesc\x00", 0, formats.Tags{Title: "Title", Author: "Author", Description: "Desc"}},
		{"unterminated", "\x1aTitle", 0, formats.Tags{Title: "Title"}},
		{"limited", "\x1aA very long title\x00", 6, formats.Tags{Title: "A very"}},
		{"unknown marker stops", "\x1aT\x00\x05junk\x1bA\x00", 0, formats.Tags{Title: "T"}},
		{"empty", "", 0, formats.Tags{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formats.ParseTags([]byte(tt.data), tt.limit); got != tt.want {
				t.Errorf("ParseTags() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
