// SPDX-License-Identifier: EPL-2.0

package export

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/oplpbx/utils"
)

// BitDepth of every file written by this package.
const BitDepth = 16

// blockFrames is how many frames are encoded per Write.
const blockFrames = 4096

var (
	ErrUnknownFormat   = errors.New("unknown export format")
	ErrInvalidChannels = errors.New("invalid channel count")
)

// Encoder is the part of the go-audio encoders used here.
type Encoder interface {
	Write(buf *goaudio.IntBuffer) error
	Close() error
}

// NewEncoder creates an Encoder writing to w.
type NewEncoder func(w io.WriteSeeker, sampleRate, channels int) Encoder

// WAV returns a 16-bit integer PCM RIFF WAVE encoder.
func WAV(w io.WriteSeeker, sampleRate, channels int) Encoder {
	return wav.NewEncoder(w, sampleRate, BitDepth, channels, 1)
}

// AIFF returns a 16-bit AIFF encoder.
func AIFF(w io.WriteSeeker, sampleRate, channels int) Encoder {
	return aiff.NewEncoder(w, sampleRate, BitDepth, channels)
}

// ForPath picks the encoder from the file extension.
func ForPath(path string) (NewEncoder, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return WAV, true
	case ".aif", ".aiff":
		return AIFF, true
	default:
		return nil, false
	}
}

// Write encodes little-endian interleaved 16-bit PCM from r until io.EOF
// and returns the number of frames written. A trailing partial frame is
// dropped. The encoder is not closed.
func Write(enc Encoder, r io.Reader, sampleRate, channels int) (int64, error) {
	if channels <= 0 {
		return 0, ErrInvalidChannels
	}

	frameBytes := 2 * channels
	raw := make([]byte, blockFrames*frameBytes)
	samples := make([]int16, blockFrames*channels)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, 0, blockFrames*channels),
		SourceBitDepth: BitDepth,
	}

	var frames int64
	for {
		got, err := io.ReadFull(r, raw)
		done := errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
		if err != nil && !done {
			return frames, fmt.Errorf("read pcm: %w", err)
		}

		got -= got % frameBytes
		if got > 0 {
			samples = samples[:got/2]
			for i := range samples {
				samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
			}
			buf.Data = utils.Int16ToInt(buf.Data, samples)
			if err := enc.Write(buf); err != nil {
				return frames, fmt.Errorf("encode: %w", err)
			}
			frames += int64(got / frameBytes)
		}
		if done {
			return frames, nil
		}
	}
}

// WriteFile creates path and encodes r into it, choosing the container
// from the extension.
func WriteFile(path string, r io.Reader, sampleRate, channels int) (int64, error) {
	newEnc, ok := ForPath(path)
	if !ok {
		return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if channels <= 0 {
		return 0, ErrInvalidChannels
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create: %w", err)
	}

	enc := newEnc(f, sampleRate, channels)
	frames, err := Write(enc, r, sampleRate, channels)
	if cerr := enc.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("finish: %w", cerr)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close: %w", cerr)
	}
	return frames, err
}
