// SPDX-License-Identifier: EPL-2.0

package formats

import "bytes"

// Tag markers used by the trailing metadata block of DRO and RAW files.
const (
	TagTitle       = 0x1a
	TagAuthor      = 0x1b
	TagDescription = 0x1c
)

// Tags is the metadata found in a trailing tag block.
type Tags struct {
	Title       string
	Author      string
	Description string
}

// ParseTags reads a tag block: a sequence of marker bytes, each followed
// by a NUL-terminated string of at most limit bytes. Parsing stops at the
// first unknown marker. limit <= 0 means unbounded.
func ParseTags(data []byte, limit int) Tags {
	var t Tags
	for len(data) > 0 {
		marker := data[0]
		var dst *string
		switch marker {
		case TagTitle:
			dst = &t.Title
		case TagAuthor:
			dst = &t.Author
		case TagDescription:
			dst = &t.Description
		default:
			return t
		}

		data = data[1:]
		end := bytes.IndexByte(data, 0)
		if end < 0 {
			end = len(data)
		}
		s := data[:end]
		if limit > 0 && len(s) > limit {
			s = s[:limit]
		}
		*dst = string(bytes.TrimSpace(s))

		if end < len(data) {
			end++
		}
		data = data[end:]
	}
	return t
}
