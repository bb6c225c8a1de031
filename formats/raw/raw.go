// SPDX-License-Identifier: EPL-2.0

package raw

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ik5/oplpbx/formats"
	"github.com/ik5/oplpbx/opl"
)

const (
	signature = "RAWADATA"

	// PITRate is the input frequency of the PC timer chip.
	PITRate = 1193180.0

	tagLimit = 40
)

var endMarker = []byte{0xff, 0xff}

// Format registers the RAW player.
var Format = formats.Format{
	Name:       "RAW",
	Extensions: []string{".raw", ".rac"},
	New:        func(chip opl.Chip) formats.Player { return New(chip) },
}

type pair struct {
	param   uint8
	command uint8
}

// Player plays a RAW capture.
type Player struct {
	formats.Base

	clock uint16
	data  []pair
	tags  formats.Tags

	pos     int
	del     int
	speed   uint16
	songEnd bool
}

func New(chip opl.Chip) *Player {
	return &Player{Base: formats.Base{Chip: chip}}
}

func (p *Player) Load(_ string, data []byte, q formats.Quirks) error {
	p.Quirks = q
	if !bytes.HasPrefix(data, []byte(signature)) {
		return fmt.Errorf("raw: %w", formats.ErrUnrecognized)
	}
	if len(data) < len(signature)+2 {
		return &formats.ParseError{Format: "RAW", Message: "missing clock", Offset: len(signature)}
	}
	p.clock = binary.LittleEndian.Uint16(data[len(signature):])

	body := data[len(signature)+2:]
	body = body[:len(body)&^1]
	p.data = make([]pair, 0, len(body)/2)
	for i := 0; i < len(body); i += 2 {
		p.data = append(p.data, pair{param: body[i], command: body[i+1]})
		if body[i] == 0xff && body[i+1] == 0xff {
			// Anything after the end marker is the tag block.
			p.tags = formats.ParseTags(data[len(signature)+2+i+2:], tagLimit)
			break
		}
	}
	if len(p.data) == 0 {
		return &formats.ParseError{Format: "RAW", Message: "no command data", Offset: len(signature) + 2}
	}
	return nil
}

func (p *Player) Update() bool {
	if p.pos >= len(p.data) {
		return false
	}
	if p.del > 0 {
		p.del--
		return !p.songEnd
	}

	for {
		if p.pos >= len(p.data) {
			return false
		}
		cur := p.data[p.pos]
		setSpeed := false

		switch cur.command {
		case 0:
			p.del = int(cur.param) - 1
			if cur.param == 0 {
				p.del = 0xff
			}
		case 2:
			if cur.param == 0 {
				p.pos++
				if p.pos >= len(p.data) {
					return false
				}
				next := p.data[p.pos]
				p.speed = uint16(next.param) | uint16(next.command)<<8
				setSpeed = true
			} else {
				p.Chip.SetChip(int(cur.param) - 1)
			}
		case 0xff:
			if cur.param == 0xff {
				p.Rewind(-1)
				p.songEnd = true
				return false
			}
		default:
			p.Chip.Write(int(cur.command), int(cur.param))
		}

		cmd := p.data[p.pos].command
		p.pos++
		if cmd == 0 && !setSpeed {
			return !p.songEnd
		}
	}
}

func (p *Player) Rewind(subsong int) {
	p.Select(subsong)
	p.pos, p.del = 0, 0
	p.speed = p.clock
	p.songEnd = false

	p.Chip.SetChip(0)
	p.Chip.Init()
	p.Chip.Write(0x01, 0x20)
}

func (p *Player) RefreshRate() float64 {
	speed := p.speed
	if speed == 0 {
		speed = 0xffff
	}
	return PITRate / float64(speed)
}

func (p *Player) Info() formats.Info {
	return p.Describe(formats.Info{
		Title:       p.tags.Title,
		Author:      p.tags.Author,
		Description: p.tags.Description,
		Type:        "RdosPlay RAW",
		Speed:       int(p.clock),
		Subsongs:    1,
	})
}
