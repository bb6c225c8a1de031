// SPDX-License-Identifier: EPL-2.0

package reference

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/oplpbx/audio"
	"github.com/ik5/oplpbx/utils"
)

// Decoders returns a registry with every reference decoder.
func Decoders() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(".wav", WAV{})
	reg.Register(".aif", AIFF{})
	reg.Register(".aiff", AIFF{})
	reg.Register(".mp3", MP3{})
	reg.Register(".ogg", Vorbis{})
	reg.Register(".oga", Vorbis{})
	return reg
}

// Open decodes the recording at path, picking the decoder by extension.
// The file is read into memory.
func Open(path string) (audio.Source, error) {
	dec, ok := Decoders().ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, audio.ErrUnknownFormat)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference: %w", err)
	}
	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// seekable returns r as a ReadSeeker, buffering it in memory if needed.
func seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return bytes.NewReader(data), nil
}

// pcmDecoder is what go-audio's WAV and AIFF decoders share.
type pcmDecoder interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// intSource adapts a go-audio integer PCM decoder.
type intSource struct {
	dec      pcmDecoder
	format   *goaudio.Format
	scale    float32
	offset   int // 8-bit WAV samples are unsigned
	buf      *goaudio.IntBuffer
	finished bool
}

func newIntSource(dec pcmDecoder, format *goaudio.Format, bitDepth int) (*intSource, error) {
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, ErrNoAudio
	}
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	return &intSource{
		dec:    dec,
		format: format,
		scale:  1 / float32(int64(1)<<(bitDepth-1)),
	}, nil
}

func (s *intSource) SampleRate() int { return s.format.SampleRate }
func (s *intSource) Channels() int   { return s.format.NumChannels }
func (s *intSource) BufSize() int    { return 4096 }
func (s *intSource) Close() error    { return nil }

func (s *intSource) ReadSamples(dst []float32) (int, error) {
	if s.finished {
		return 0, io.EOF
	}
	if len(dst)%s.Channels() != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &goaudio.IntBuffer{Format: s.format, Data: make([]int, len(dst))}
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v-s.offset) * s.scale
	}
	switch {
	case errors.Is(err, io.EOF) || (err == nil && n < len(dst)):
		s.finished = true
		return n, io.EOF
	case err != nil:
		return n, fmt.Errorf("%w", err)
	}
	return n, nil
}

// WAV decodes RIFF WAVE files with integer PCM.
type WAV struct{}

func (WAV) Decode(r io.Reader) (audio.Source, error) {
	rs, err := seekable(r)
	if err != nil {
		return nil, err
	}
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWAV
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWAV, err)
	}
	src, err := newIntSource(dec, dec.Format(), int(dec.BitDepth))
	if err != nil {
		return nil, err
	}
	if dec.BitDepth == 8 {
		src.offset = 128
	}
	return src, nil
}

// AIFF decodes AIFF files.
type AIFF struct{}

func (AIFF) Decode(r io.Reader) (audio.Source, error) {
	rs, err := seekable(r)
	if err != nil {
		return nil, err
	}
	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAIFF
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAIFF, err)
	}
	return newIntSource(dec, dec.Format(), int(dec.BitDepth))
}

// MP3 decodes MPEG-1/2 layer III. go-mp3 always produces 16-bit stereo.
type MP3 struct{}

type mp3Source struct {
	dec *gomp3.Decoder
	raw []byte
}

func (MP3) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return &mp3Source{dec: dec}, nil
}

func (s *mp3Source) SampleRate() int { return s.dec.SampleRate() }
func (s *mp3Source) Channels() int   { return 2 }
func (s *mp3Source) BufSize() int    { return 4096 }
func (s *mp3Source) Close() error    { return nil }

func (s *mp3Source) ReadSamples(dst []float32) (int, error) {
	need := len(dst) * 2
	if cap(s.raw) < need {
		s.raw = make([]byte, need)
	}
	got, err := io.ReadFull(s.dec, s.raw[:need])
	n := got / 2
	for i := range n {
		dst[i] = utils.Int16ToFloat32(int16(uint16(s.raw[2*i]) | uint16(s.raw[2*i+1])<<8))
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, io.EOF
	}
	if err != nil {
		return n, fmt.Errorf("%w", err)
	}
	return n, nil
}

// Vorbis decodes Ogg Vorbis streams.
type Vorbis struct{}

type vorbisSource struct {
	dec *oggvorbis.Reader
}

func (Vorbis) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return &vorbisSource{dec: dec}, nil
}

func (s *vorbisSource) SampleRate() int { return s.dec.SampleRate() }
func (s *vorbisSource) Channels() int   { return s.dec.Channels() }
func (s *vorbisSource) BufSize() int    { return 4096 }
func (s *vorbisSource) Close() error    { return nil }

// ReadSamples returns interleaved values; oggvorbis counts values, not
// frames.
func (s *vorbisSource) ReadSamples(dst []float32) (int, error) {
	n, err := s.dec.Read(dst)
	if errors.Is(err, io.EOF) {
		return n, io.EOF
	}
	if err != nil {
		return n, fmt.Errorf("%w", err)
	}
	return n, nil
}
