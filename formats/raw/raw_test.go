// SPDX-License-Identifier: EPL-2.0

package raw

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ik5/oplpbx/formats"
	"github.com/ik5/oplpbx/internal/audiotest"
)

func build(clock uint16, pairs []byte, tail []byte) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(signature)
	binary.Write(buf, binary.LittleEndian, clock)
	buf.Write(pairs)
	buf.Write(tail)
	return buf.Bytes()
}

var song = []byte{
	0x21, 0x20, // write 0x20
	0x03, 0x00, // delay 3
	0x00, 0x02, 0x34, 0x12, // clock 0x1234
	0x32, 0xb0,
	0x01, 0x00, // delay 1
	0x02, 0x02, // chip 1
	0x44, 0xa0,
	0x01, 0x00,
	0xff, 0xff,
}

func TestPlayer_Rejects(t *testing.T) {
	t.Parallel()

	p := New(audiotest.NewChip(false, 0, nil))
	if err := p.Load("a.raw", []byte("NOTRAWDATA"), formats.Quirks{}); !errors.Is(err, formats.ErrUnrecognized) {
		t.Errorf("Load() error = %v, want ErrUnrecognized", err)
	}

	var perr *formats.ParseError
	if err := p.Load("a.raw", []byte(signature), formats.Quirks{}); !errors.As(err, &perr) {
		t.Errorf("Load(no clock) error = %v, want *ParseError", err)
	}
}

func TestPlayer_Playback(t *testing.T) {
	t.Parallel()

	chip := audiotest.NewChip(false, 0, nil)
	p := New(chip)
	tail := []byte("\x1aRaw Title\x00\x1bRaw Author\x00")
	if err := p.Load("a.raw", build(0x2000, song, tail), formats.Quirks{}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	p.Rewind(0)
	chip.Writes = nil

	if got, want := p.RefreshRate(), PITRate/0x2000; got != want {
		t.Errorf("RefreshRate() = %v, want %v", got, want)
	}

	// Tick 1 writes 0x20 and starts a delay of 3 ticks.
	if !p.Update() {
		t.Fatal("Update() #1 = false")
	}
	if len(chip.Writes) != 1 {
		t.Fatalf("writes after tick 1 = %d, want 1", len(chip.Writes))
	}
	for i := range 2 {
		if !p.Update() {
			t.Fatalf("delay tick %d = false", i)
		}
	}
	if len(chip.Writes) != 1 {
		t.Errorf("delay ticks wrote registers: %+v", chip.Writes)
	}

	// Clock change, then write 0xb0.
	if !p.Update() {
		t.Fatal("Update() #4 = false")
	}
	if got, want := p.RefreshRate(), PITRate/0x1234; got != want {
		t.Errorf("RefreshRate() after clock change = %v, want %v", got, want)
	}
	if chip.Last(0xb0) != 0x32 {
		t.Errorf("reg 0xb0 = %#x, want 0x32", chip.Last(0xb0))
	}

	if !p.Update() {
		t.Fatal("Update() #5 = false")
	}
	if got := chip.Writes[len(chip.Writes)-1]; got != (audiotest.Write{Chip: 1, Reg: 0xa0, Val: 0x44}) {
		t.Errorf("last write = %+v, want chip 1 reg 0xa0", got)
	}

	if p.Update() {
		t.Error("Update() at end marker = true, want false")
	}

	info := p.Info()
	if info.Title != "Raw Title" || info.Author != "Raw Author" {
		t.Errorf("Info() = %+v", info)
	}
}

func TestPlayer_ZeroClock(t *testing.T) {
	t.Parallel()

	p := New(audiotest.NewChip(false, 0, nil))
	if err := p.Load("a.raw", build(0, song, nil), formats.Quirks{}); err != nil {
		t.Fatal(err)
	}
	p.Rewind(0)
	if got, want := p.RefreshRate(), PITRate/0xffff; got != want {
		t.Errorf("RefreshRate() = %v, want %v", got, want)
	}
}
