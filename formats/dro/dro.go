// SPDX-License-Identifier: EPL-2.0

package dro

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ik5/oplpbx/formats"
	"github.com/ik5/oplpbx/opl"
)

const (
	signature = "DBRAWOPL"

	version1 = 0x10000
	version2 = 0x2

	// Tag blocks start with this prefix after the v2 command data.
	tagPrefix = "\xff\xff\x1a"
	tagLimit  = 40

	baseRate = 1000.0
)

// Format registers the DRO player.
var Format = formats.Format{
	Name:       "DRO",
	Extensions: []string{".dro"},
	New:        func(chip opl.Chip) formats.Player { return New(chip) },
}

// Hardware is the chip a capture was made on.
type Hardware uint8

const (
	HardwareOPL2 Hardware = iota
	HardwareDualOPL2
	HardwareOPL3
)

func (h Hardware) String() string {
	switch h {
	case HardwareOPL2:
		return "OPL2"
	case HardwareDualOPL2:
		return "Dual OPL2"
	case HardwareOPL3:
		return "OPL3"
	default:
		return fmt.Sprintf("hardware %d", uint8(h))
	}
}

// Player plays a DRO v1 or v2 capture.
type Player struct {
	formats.Base

	version  int
	hardware Hardware
	data     []byte
	lengthMs uint32

	// v2 only
	shortDelay uint8
	longDelay  uint8
	codemap    []uint8

	tags formats.Tags

	pos   int
	delay int
}

func New(chip opl.Chip) *Player {
	return &Player{Base: formats.Base{Chip: chip}}
}

func (p *Player) Load(_ string, data []byte, q formats.Quirks) error {
	p.Quirks = q
	if len(data) < len(signature)+4 || string(data[:len(signature)]) != signature {
		return fmt.Errorf("dro: %w", formats.ErrUnrecognized)
	}

	off := len(signature)
	switch binary.LittleEndian.Uint32(data[off:]) {
	case version1:
		return p.loadV1(data, off+4)
	case version2:
		return p.loadV2(data, off+4)
	default:
		return fmt.Errorf("dro: unsupported version: %w", formats.ErrUnrecognized)
	}
}

func (p *Player) loadV1(data []byte, off int) error {
	if len(data) < off+9 {
		return &formats.ParseError{Format: "DRO", Message: "truncated v1 header", Offset: off}
	}
	p.version = 1
	p.lengthMs = binary.LittleEndian.Uint32(data[off:])
	length := int(binary.LittleEndian.Uint32(data[off+4:]))
	p.hardware = Hardware(data[off+8])
	off += 9

	// Early captures used a one byte hardware field, later ones four bytes
	// without a version change. Three zero bytes mean the long form.
	if len(data) >= off+3 && data[off] == 0 && data[off+1] == 0 && data[off+2] == 0 {
		off += 3
	}

	if length > len(data)-off {
		return &formats.ParseError{Format: "DRO", Message: "command data exceeds file size", Offset: off}
	}
	p.data = data[off : off+length]
	return nil
}

func (p *Player) loadV2(data []byte, off int) error {
	if len(data) < off+14 {
		return &formats.ParseError{Format: "DRO", Message: "truncated v2 header", Offset: off}
	}
	p.version = 2
	pairs := int(binary.LittleEndian.Uint32(data[off:]))
	p.lengthMs = binary.LittleEndian.Uint32(data[off+4:])
	p.hardware = Hardware(data[off+8])
	format, compression := data[off+9], data[off+10]
	p.shortDelay, p.longDelay = data[off+11], data[off+12]
	mapLen := int(data[off+13])
	off += 14

	if format != 0 {
		return &formats.ParseError{Format: "DRO", Message: fmt.Sprintf("unsupported data format %d", format), Offset: off - 5}
	}
	if compression != 0 {
		return &formats.ParseError{Format: "DRO", Message: fmt.Sprintf("unsupported compression %d", compression), Offset: off - 4}
	}
	if mapLen > 128 || len(data) < off+mapLen {
		return &formats.ParseError{Format: "DRO", Message: "bad code map", Offset: off}
	}
	p.codemap = data[off : off+mapLen]
	off += mapLen

	if pairs*2 > len(data)-off {
		return &formats.ParseError{Format: "DRO", Message: "command data exceeds file size", Offset: off}
	}
	p.data = data[off : off+pairs*2]

	if tail := data[off+pairs*2:]; bytes.HasPrefix(tail, []byte(tagPrefix)) {
		p.tags = formats.ParseTags(tail[2:], tagLimit)
	}
	return nil
}

func (p *Player) Update() bool {
	if p.version == 1 {
		return p.updateV1()
	}
	return p.updateV2()
}

func (p *Player) updateV1() bool {
	for p.pos < len(p.data) {
		code := p.data[p.pos]
		p.pos++

		switch code {
		case 0x00:
			if p.pos >= len(p.data) {
				return false
			}
			p.delay = 1 + int(p.data[p.pos])
			p.pos++
			return true
		case 0x01:
			if p.pos+1 >= len(p.data) {
				return false
			}
			p.delay = 1 + int(binary.LittleEndian.Uint16(p.data[p.pos:]))
			p.pos += 2
			return true
		case 0x02, 0x03:
			p.Chip.SetChip(int(code - 0x02))
		case 0x04:
			// Escape: the next byte is a register below 0x05.
			if p.pos+1 >= len(p.data) {
				return false
			}
			p.Chip.Write(int(p.data[p.pos]), int(p.data[p.pos+1]))
			p.pos += 2
		default:
			if p.pos >= len(p.data) {
				return false
			}
			p.Chip.Write(int(code), int(p.data[p.pos]))
			p.pos++
		}
	}
	return false
}

func (p *Player) updateV2() bool {
	for p.pos+1 < len(p.data) {
		code, val := p.data[p.pos], p.data[p.pos+1]
		p.pos += 2

		switch code {
		case p.shortDelay:
			p.delay = int(val) + 1
			return true
		case p.longDelay:
			p.delay = (int(val) + 1) << 8
			return true
		}

		idx := int(code & 0x7f)
		if idx >= len(p.codemap) {
			continue
		}
		p.Chip.SetChip(int(code >> 7))
		p.Chip.Write(int(p.codemap[idx]), int(val))
	}
	return false
}

func (p *Player) Rewind(subsong int) {
	p.Select(subsong)
	p.pos = 0
	p.delay = 1

	p.Chip.SetChip(0)
	p.Chip.Init()
	p.Chip.Write(0x01, 0x20)
}

func (p *Player) RefreshRate() float64 {
	if p.delay > 0 {
		return baseRate / float64(p.delay)
	}
	return baseRate
}

// LengthMs returns the length recorded in the file header.
func (p *Player) LengthMs() uint32 { return p.lengthMs }

func (p *Player) Hardware() Hardware { return p.hardware }

func (p *Player) Info() formats.Info {
	return p.Describe(formats.Info{
		Title:       p.tags.Title,
		Author:      p.tags.Author,
		Description: p.tags.Description,
		Type:        fmt.Sprintf("DOSBox Raw OPL v%d.0 (%s)", p.version, p.hardware),
		Speed:       int(baseRate),
		Subsongs:    1,
	})
}
