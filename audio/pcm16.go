// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/oplpbx/utils"
)

// PCM16Source decodes little-endian interleaved 16-bit PCM, such as the
// output of a playback.Reader, into a Source.
type PCM16Source struct {
	r        io.Reader
	rate     int
	channels int
	raw      []byte
	eof      bool
}

func NewPCM16Source(r io.Reader, sampleRate, channels int) *PCM16Source {
	return &PCM16Source{r: r, rate: sampleRate, channels: channels}
}

func (s *PCM16Source) SampleRate() int { return s.rate }
func (s *PCM16Source) Channels() int   { return s.channels }
func (s *PCM16Source) BufSize() int    { return 4096 }

// Close closes the underlying reader when it is an io.Closer.
func (s *PCM16Source) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}

func (s *PCM16Source) ReadSamples(dst []float32) (int, error) {
	if s.channels <= 0 {
		return 0, ErrInvalidChannels
	}
	if len(dst)%s.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if s.eof {
		return 0, io.EOF
	}

	need := len(dst) * 2
	if cap(s.raw) < need {
		s.raw = make([]byte, need)
	}
	raw := s.raw[:need]

	got, err := io.ReadFull(s.r, raw)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		s.eof = true
		err = nil
	case err != nil:
		return 0, fmt.Errorf("%w", err)
	}

	// Only whole frames are decoded.
	frameBytes := 2 * s.channels
	got -= got % frameBytes
	n := got / 2
	for i := range n {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(raw[2*i:])))
	}

	if s.eof {
		return n, io.EOF
	}
	return n, nil
}
