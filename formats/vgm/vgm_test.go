// SPDX-License-Identifier: EPL-2.0

package vgm

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"testing"
	"unicode/utf16"

	"github.com/ik5/oplpbx/formats"
	"github.com/ik5/oplpbx/internal/audiotest"
)

func gd3Block(fields ...string) []byte {
	var body bytes.Buffer
	for i := range gd3Fields {
		var s string
		if i < len(fields) {
			s = fields[i]
		}
		for _, u := range utf16.Encode([]rune(s)) {
			binary.Write(&body, binary.LittleEndian, u)
		}
		body.Write([]byte{0, 0})
	}

	var out bytes.Buffer
	out.WriteString(gd3Signature)
	binary.Write(&out, binary.LittleEndian, uint32(0x100))
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

// build creates a v1.51 VGM with a YM3812 clock, the given command stream
// at 0x80 and a GD3 block after it. loopAt is an offset into cmds or -1.
func build(cmds []byte, loopAt int, gd3 []byte) []byte {
	const dataAt = 0x80
	data := make([]byte, dataAt, dataAt+len(cmds)+len(gd3))
	copy(data, signature)
	put := func(off int, v uint32) { binary.LittleEndian.PutUint32(data[off:], v) }

	put(0x08, 0x151)
	put(offTotal, 44100*2)
	put(offDataStart, dataAt-offDataStart)
	put(offYM3812, 3579545)
	if loopAt >= 0 {
		put(offLoop, uint32(dataAt+loopAt-offLoop))
	}
	if gd3 != nil {
		put(offGD3, uint32(dataAt+len(cmds)-offGD3))
	}

	data = append(data, cmds...)
	data = append(data, gd3...)
	put(0x04, uint32(len(data)-4))
	return data
}

var song = []byte{
	0x5a, 0x20, 0x21, // YM3812 write
	0x62,       // wait 735
	0x4f, 0x00, // game gear stereo, skipped
	0x5a, 0xb0, 0x32,
	0x67, 0x66, 0x00, 0x02, 0x00, 0x00, 0x00, 0xaa, 0xbb, // data block
	0x61, 0x00, 0x00, // zero wait, ignored
	0x70,             // wait 1
	0xaa, 0xa0, 0x44, // second chip
	0x61, 0x10, 0x00, // wait 16
	0x66,
}

func TestPlayer_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"not vgm", []byte("RIFF....WAVEfmt ")},
		{"bad gzip", []byte{0x1f, 0x8b, 0x00}},
		{"no opl clock", func() []byte {
			d := build(song, -1, nil)
			binary.LittleEndian.PutUint32(d[offYM3812:], 0)
			return d
		}()},
		{"old version", func() []byte {
			d := build(song, -1, nil)
			binary.LittleEndian.PutUint32(d[0x08:], 0x150)
			return d
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := New(audiotest.NewChip(false, 0, nil))
			if err := p.Load("a.vgm", tt.data, formats.Quirks{}); !errors.Is(err, formats.ErrUnrecognized) {
				t.Errorf("Load() error = %v, want ErrUnrecognized", err)
			}
		})
	}
}

func TestPlayer_Playback(t *testing.T) {
	t.Parallel()

	chip := audiotest.NewChip(false, 0, nil)
	p := New(chip)
	if err := p.Load("a.vgm", build(song, -1, nil), formats.Quirks{}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	p.Rewind(0)
	chip.Writes = nil

	steps := []struct {
		refresh float64
		writes  int
	}{
		{SampleRate / 735, 1},
		{SampleRate, 2},
		{SampleRate / 16, 3},
	}
	for i, s := range steps {
		if !p.Update() {
			t.Fatalf("Update() #%d = false", i)
		}
		if p.RefreshRate() != s.refresh {
			t.Errorf("tick %d RefreshRate() = %v, want %v", i, p.RefreshRate(), s.refresh)
		}
		if len(chip.Writes) != s.writes {
			t.Errorf("tick %d writes = %d, want %d", i, len(chip.Writes), s.writes)
		}
	}
	if got := chip.Writes[2]; got != (audiotest.Write{Chip: 1, Reg: 0xa0, Val: 0x44}) {
		t.Errorf("third write = %+v", got)
	}
	if p.Update() {
		t.Error("Update() at end command = true, want false")
	}
	if p.LengthMs() != 2000 {
		t.Errorf("LengthMs() = %d, want 2000", p.LengthMs())
	}
}

func TestPlayer_LoopsAfterEnd(t *testing.T) {
	t.Parallel()

	chip := audiotest.NewChip(false, 0, nil)
	p := New(chip)
	// Loop back to the second YM3812 write.
	if err := p.Load("a.vgm", build(song, 6, nil), formats.Quirks{}); err != nil {
		t.Fatal(err)
	}
	p.Rewind(0)
	for p.Update() {
	}
	chip.Writes = nil

	// Still ended, but the stream carries on from the loop point.
	if p.Update() {
		t.Error("Update() after end = true, want false until rewind")
	}
	if len(chip.Writes) != 1 || chip.Writes[0].Reg != 0xb0 {
		t.Errorf("writes after loop = %+v, want reg 0xb0", chip.Writes)
	}
}

func TestPlayer_CompressedWithTags(t *testing.T) {
	t.Parallel()

	raw := build(song, -1, gd3Block("Stage 1", "", "Game", "", "PC", "", "Composer", "", "1992", "ripper", ""))
	var zbuf bytes.Buffer
	zw := gzip.NewWriter(&zbuf)
	zw.Write(raw)
	zw.Close()

	p := New(audiotest.NewChip(false, 0, nil))
	if err := p.Load("a.vgz", zbuf.Bytes(), formats.Quirks{}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	info := p.Info()
	if info.Title != "Stage 1" || info.Author != "Composer" || info.Description != "Game" {
		t.Errorf("Info() = %+v", info)
	}
	if info.Type != "Video Game Music (YM3812)" {
		t.Errorf("Type = %q", info.Type)
	}
	if p.Tags().Date != "1992" {
		t.Errorf("Date = %q, want 1992", p.Tags().Date)
	}
}
