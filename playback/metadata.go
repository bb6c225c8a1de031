// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"strconv"
	"unicode/utf8"
)

const (
	// TextMax is the capacity in bytes of text metadata fields.
	TextMax = 255
	// NumMax is the capacity in bytes of numeric metadata fields.
	NumMax = 15
)

// BoundedText is a string cut to a fixed byte capacity.
type BoundedText struct {
	Text string
	// Truncated is set when the source value did not fit.
	Truncated bool
}

// Bound cuts s to at most max bytes without splitting a UTF-8 sequence.
func Bound(s string, max int) BoundedText {
	if len(s) <= max {
		return BoundedText{Text: s}
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return BoundedText{Text: s[:cut], Truncated: true}
}

func (b BoundedText) String() string { return b.Text }

// Metadata describes the loaded module.
type Metadata struct {
	Title       BoundedText
	Author      BoundedText
	Description BoundedText
	Type        BoundedText
	Speed       BoundedText
	Subsongs    BoundedText
}

// Fields returns the metadata in host order: title, author, description,
// type, speed and subsong count.
func (m Metadata) Fields() [6]string {
	return [6]string{
		m.Title.Text,
		m.Author.Text,
		m.Description.Text,
		m.Type.Text,
		m.Speed.Text,
		m.Subsongs.Text,
	}
}

// Metadata reads the current metadata from the decoder.
func (s *Session) Metadata() (Metadata, error) {
	if s.decoder == nil {
		return Metadata{}, ErrNotLoaded
	}
	info := s.decoder.Info()
	return Metadata{
		Title:       Bound(info.Title, TextMax),
		Author:      Bound(info.Author, TextMax),
		Description: Bound(info.Description, TextMax),
		Type:        Bound(info.Type, TextMax),
		Speed:       Bound(strconv.Itoa(info.Speed), NumMax),
		Subsongs:    Bound(strconv.Itoa(info.Subsongs), NumMax),
	}, nil
}
