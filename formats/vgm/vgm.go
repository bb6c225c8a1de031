// SPDX-License-Identifier: EPL-2.0

package vgm

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/oplpbx/formats"
	"github.com/ik5/oplpbx/opl"
)

const (
	signature = "Vgm "

	// SampleRate is the VGM timebase: every wait is in 1/44100 s.
	SampleRate = 44100.0

	minVersion = 0x151 // first version with OPL clock fields

	offGD3       = 0x14
	offTotal     = 0x18
	offLoop      = 0x1c
	offDataStart = 0x34
	offYM3812    = 0x50
	offYM3526    = 0x54
	offY8950     = 0x58
	offYMF262    = 0x5c

	clockMask = 0x3fffffff
	dualChip  = 0x40000000

	// Uncompressed files larger than this are rejected.
	maxSize = 64 << 20
)

var gzipMagic = []byte{0x1f, 0x8b}

// Format registers the VGM player.
var Format = formats.Format{
	Name:       "VGM",
	Extensions: []string{".vgm", ".vgz"},
	New:        func(chip opl.Chip) formats.Player { return New(chip) },
}

// Player plays the OPL writes of a VGM stream.
type Player struct {
	formats.Base

	data      []byte
	start     int
	loop      int // 0 when the song does not loop
	total     uint32
	chipName  string
	chipClock uint32
	dual      bool
	tags      Tags

	pos     int
	wait    int
	songEnd bool
}

func New(chip opl.Chip) *Player {
	return &Player{Base: formats.Base{Chip: chip}}
}

func (p *Player) Load(_ string, data []byte, q formats.Quirks) error {
	p.Quirks = q

	if bytes.HasPrefix(data, gzipMagic) {
		var err error
		if data, err = gunzip(data); err != nil {
			return fmt.Errorf("vgm: %w: %w", formats.ErrUnrecognized, err)
		}
	}
	if !bytes.HasPrefix(data, []byte(signature)) {
		return fmt.Errorf("vgm: %w", formats.ErrUnrecognized)
	}
	if len(data) < 0x60 {
		return &formats.ParseError{Format: "VGM", Message: "truncated header", Offset: len(data)}
	}

	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(data[off:]) }

	if version := u32(0x08); version < minVersion {
		return fmt.Errorf("vgm: version %x has no OPL chips: %w", version, formats.ErrUnrecognized)
	}

	clocks := []struct {
		name string
		off  int
	}{
		{"YM3812", offYM3812},
		{"YM3526", offYM3526},
		{"Y8950", offY8950},
		{"YMF262", offYMF262},
	}
	for _, c := range clocks {
		if clk := u32(c.off); clk&clockMask != 0 {
			p.chipName = c.name
			p.chipClock = clk & clockMask
			p.dual = clk&dualChip != 0
			break
		}
	}
	if p.chipName == "" {
		return fmt.Errorf("vgm: no OPL chip in file: %w", formats.ErrUnrecognized)
	}

	p.start = offDataStart + int(u32(offDataStart))
	if u32(offDataStart) == 0 {
		p.start = 0x40
	}
	if p.start >= len(data) {
		return &formats.ParseError{Format: "VGM", Message: "data offset beyond end of file", Offset: offDataStart}
	}
	if l := u32(offLoop); l != 0 {
		p.loop = offLoop + int(l)
		if p.loop >= len(data) || p.loop < p.start {
			p.loop = 0
		}
	}
	p.total = u32(offTotal)

	if g := u32(offGD3); g != 0 {
		p.tags = parseGD3(data, offGD3+int(g))
	}
	p.data = data
	return nil
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, maxSize+1))
	if err != nil {
		return nil, err
	}
	if len(out) > maxSize {
		return nil, fmt.Errorf("decompressed size exceeds %d bytes", maxSize)
	}
	return out, nil
}

// operands returns the operand byte count of a command that is skipped.
func operands(cmd byte) int {
	switch {
	case cmd >= 0x30 && cmd <= 0x3f, cmd == 0x4f, cmd == 0x50, cmd == 0x94:
		return 1
	case cmd >= 0x40 && cmd <= 0x4e, cmd >= 0x51 && cmd <= 0x5f, cmd >= 0xa0 && cmd <= 0xbf:
		return 2
	case cmd >= 0xc0 && cmd <= 0xdf:
		return 3
	case cmd >= 0xe0, cmd == 0x90, cmd == 0x91, cmd == 0x95:
		return 4
	case cmd == 0x92:
		return 5
	case cmd == 0x93:
		return 10
	default:
		return 0
	}
}

func (p *Player) write(chip int, reg, val byte) {
	if p.Chip.CurrentChip() != chip {
		p.Chip.SetChip(chip)
	}
	p.Chip.Write(int(reg), int(val))
}

func (p *Player) Update() bool {
	p.wait = 0
	for p.wait == 0 {
		if p.pos >= len(p.data) {
			p.restart()
			return false
		}
		cmd := p.data[p.pos]
		p.pos++

		switch {
		case cmd == 0x5a || cmd == 0x5b || cmd == 0x5c || cmd == 0x5e:
			if !p.operand(2) {
				return false
			}
			p.write(0, p.data[p.pos], p.data[p.pos+1])
			p.pos += 2
		case cmd == 0x5f || cmd == 0xaa:
			if !p.operand(2) {
				return false
			}
			p.write(1, p.data[p.pos], p.data[p.pos+1])
			p.pos += 2
		case cmd == 0x61:
			if !p.operand(2) {
				return false
			}
			p.wait = int(binary.LittleEndian.Uint16(p.data[p.pos:]))
			p.pos += 2
		case cmd == 0x62:
			p.wait = 735
		case cmd == 0x63:
			p.wait = 882
		case cmd == 0x66:
			p.restart()
			return false
		case cmd == 0x67:
			// 0x67 0x66 type size32 data
			if !p.operand(6) {
				return false
			}
			size := int(binary.LittleEndian.Uint32(p.data[p.pos+2:]))
			p.pos += 6 + size
		case cmd >= 0x70 && cmd <= 0x7f:
			p.wait = int(cmd&0x0f) + 1
		case cmd >= 0x80 && cmd <= 0x8f:
			p.wait = int(cmd & 0x0f)
		default:
			p.pos += operands(cmd)
		}
	}
	return !p.songEnd
}

// operand reports whether n operand bytes follow; when they do not, the
// stream is treated as ended.
func (p *Player) operand(n int) bool {
	if p.pos+n > len(p.data) {
		p.restart()
		return false
	}
	return true
}

func (p *Player) restart() {
	p.songEnd = true
	p.wait = 1
	if p.loop > 0 {
		p.pos = p.loop
	} else {
		p.pos = p.start
	}
}

func (p *Player) Rewind(subsong int) {
	p.Select(subsong)
	p.pos = p.start
	p.wait = 1
	p.songEnd = false

	p.Chip.SetChip(0)
	p.Chip.Init()
	p.Chip.Write(0x01, 0x20)
}

func (p *Player) RefreshRate() float64 {
	if p.wait <= 0 {
		return SampleRate
	}
	return SampleRate / float64(p.wait)
}

// LengthMs returns the length stored in the header.
func (p *Player) LengthMs() uint64 {
	return uint64(p.total) * 1000 / uint64(SampleRate)
}

func (p *Player) Tags() Tags { return p.tags }

func (p *Player) Info() formats.Info {
	desc := p.tags.Notes
	if desc == "" && p.tags.Game != "" {
		desc = p.tags.Game
	}
	chip := p.chipName
	if p.dual {
		chip = "2x" + chip
	}
	return p.Describe(formats.Info{
		Title:       p.tags.Track,
		Author:      p.tags.Author,
		Description: desc,
		Type:        fmt.Sprintf("Video Game Music (%s)", chip),
		Speed:       int(SampleRate),
		Subsongs:    1,
	})
}
