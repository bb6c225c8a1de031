// SPDX-License-Identifier: EPL-2.0

package vgm

import (
	"encoding/binary"
	"unicode/utf16"
)

const gd3Signature = "Gd3 "

// gd3 field order.
const (
	gd3TrackEN = iota
	gd3TrackJP
	gd3GameEN
	gd3GameJP
	gd3SystemEN
	gd3SystemJP
	gd3AuthorEN
	gd3AuthorJP
	gd3Date
	gd3Ripper
	gd3Notes
	gd3Fields
)

// Tags holds the GD3 metadata of a file.
type Tags struct {
	Track  string
	Game   string
	System string
	Author string
	Date   string
	Ripper string
	Notes  string
}

// parseGD3 decodes the tag block at off. Missing or malformed blocks
// produce empty tags.
func parseGD3(data []byte, off int) Tags {
	if off <= 0 || off+12 > len(data) || string(data[off:off+4]) != gd3Signature {
		return Tags{}
	}
	size := int(binary.LittleEndian.Uint32(data[off+8:]))
	body := data[off+12:]
	if size < len(body) {
		body = body[:size]
	}

	var fields [gd3Fields]string
	for i := range fields {
		var s string
		s, body = utf16String(body)
		fields[i] = s
	}

	pick := func(en, jp int) string {
		if fields[en] != "" {
			return fields[en]
		}
		return fields[jp]
	}
	return Tags{
		Track:  pick(gd3TrackEN, gd3TrackJP),
		Game:   pick(gd3GameEN, gd3GameJP),
		System: pick(gd3SystemEN, gd3SystemJP),
		Author: pick(gd3AuthorEN, gd3AuthorJP),
		Date:   fields[gd3Date],
		Ripper: fields[gd3Ripper],
		Notes:  fields[gd3Notes],
	}
}

// utf16String reads a NUL-terminated UTF-16LE string and returns the rest
// of b after the terminator.
func utf16String(b []byte) (string, []byte) {
	var units []uint16
	for len(b) >= 2 {
		u := binary.LittleEndian.Uint16(b)
		b = b[2:]
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), b
}
