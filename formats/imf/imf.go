// SPDX-License-Identifier: EPL-2.0

package imf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ik5/oplpbx/formats"
	"github.com/ik5/oplpbx/opl"
)

const (
	RateDefault = 560.0
	RateWolf    = 700.0

	adlibHeader = "ADLIB\x01"
	tagMarker   = 0x1a
)

// Format registers the IMF player.
var Format = formats.Format{
	Name:       "IMF",
	Extensions: []string{".imf", ".wlf"},
	New:        func(chip opl.Chip) formats.Player { return New(chip) },
}

type command struct {
	reg   uint8
	val   uint8
	delay uint16
}

// Player plays an IMF file.
type Player struct {
	formats.Base

	cmds    []command
	rate    float64
	pos     int
	timer   float64
	songEnd bool

	title   string
	author  string
	game    string
	remarks string
}

func New(chip opl.Chip) *Player {
	return &Player{Base: formats.Base{Chip: chip}}
}

func (p *Player) Load(name string, data []byte, q formats.Quirks) error {
	p.Quirks = q
	ext := strings.ToLower(filepath.Ext(name))

	body := data
	switch {
	case bytes.HasPrefix(data, []byte(adlibHeader)):
		var off int
		p.title, off = cString(data, len(adlibHeader))
		p.game, off = cString(data, off)
		off++ // reserved byte
		if off > len(data) {
			return &formats.ParseError{Format: "IMF", Message: "truncated ADLIB header", Offset: off}
		}
		body = data[off:]
	case ext != ".imf" && ext != ".wlf":
		return fmt.Errorf("imf: %w", formats.ErrUnrecognized)
	}

	cmds, tail, err := split(body)
	if err != nil {
		return err
	}
	p.cmds = cmds
	p.parseTags(tail)

	switch {
	case q.RefreshHz > 0:
		p.rate = q.RefreshHz
	case ext == ".wlf":
		p.rate = RateWolf
	default:
		p.rate = RateDefault
	}
	return nil
}

// split separates the command list from the trailing tag block.
func split(body []byte) ([]command, []byte, error) {
	if len(body) < 4 {
		return nil, nil, &formats.ParseError{Format: "IMF", Message: "no command data", Offset: 0}
	}

	data, tail := body, []byte(nil)
	if size := int(binary.LittleEndian.Uint16(body)); size != 0 && size%4 == 0 && size+2 <= len(body) {
		data, tail = body[2:2+size], body[2+size:]
	}

	cmds := make([]command, len(data)/4)
	for i := range cmds {
		b := data[4*i:]
		cmds[i] = command{reg: b[0], val: b[1], delay: binary.LittleEndian.Uint16(b[2:])}
	}
	return cmds, tail, nil
}

func (p *Player) parseTags(tail []byte) {
	if len(tail) == 0 || tail[0] != tagMarker {
		return
	}
	title, off := cString(tail, 1)
	if title != "" {
		p.title = title
	}
	p.author, off = cString(tail, off)
	p.remarks, _ = cString(tail, off)
}

// cString reads a NUL-terminated string at off and returns it with the
// offset just past the terminator.
func cString(data []byte, off int) (string, int) {
	if off >= len(data) {
		return "", off + 1
	}
	end := bytes.IndexByte(data[off:], 0)
	if end < 0 {
		return string(data[off:]), len(data) + 1
	}
	return string(data[off : off+end]), off + end + 1
}

func (p *Player) Update() bool {
	if len(p.cmds) == 0 {
		p.songEnd = true
		return false
	}

	var delay uint16
	for delay == 0 && p.pos < len(p.cmds) {
		c := p.cmds[p.pos]
		p.Chip.Write(int(c.reg), int(c.val))
		delay = c.delay
		p.pos++
	}

	if p.pos >= len(p.cmds) {
		p.pos = 0
		p.songEnd = true
	} else {
		p.timer = p.rate / float64(delay)
	}
	return !p.songEnd
}

func (p *Player) Rewind(subsong int) {
	p.Select(subsong)
	p.pos = 0
	p.songEnd = false
	p.timer = p.rate

	p.Chip.Init()
	p.Chip.Write(0x01, 0x20)
}

func (p *Player) RefreshRate() float64 {
	return p.timer
}

func (p *Player) Info() formats.Info {
	title := p.title
	if p.game != "" {
		title = fmt.Sprintf("%s (%s)", title, p.game)
	}
	return p.Describe(formats.Info{
		Title:       strings.TrimSpace(title),
		Author:      p.author,
		Description: p.remarks,
		Type:        "IMF File Format",
		Speed:       int(p.rate),
		Subsongs:    1,
	})
}
