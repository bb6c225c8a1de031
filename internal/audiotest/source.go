// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds test doubles shared by the package tests:
// generated PCM sources, a recording OPL chip and a scripted decoder.
package audiotest

import (
	"io"
	"math"
)

// Source generates float PCM from a waveform function.
// It implements audio.Source (without importing it to avoid cycles).
type Source struct {
	sampleRate int
	channels   int
	frames     int // total frames to generate
	pos        int // frames generated so far
	wave       func(frame, channel int) float32
}

// NewSource creates a source producing frames frames of wave.
func NewSource(sampleRate, channels, frames int, wave func(frame, channel int) float32) *Source {
	return &Source{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		wave:       wave,
	}
}

// NewSineSource generates a sine wave of frequency Hz on every channel.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *Source {
	return NewSource(sampleRate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * frequency * float64(frame) / float64(sampleRate)))
	})
}

// NewConstantSource generates a constant value.
func NewConstantSource(sampleRate, channels, frames int, value float32) *Source {
	return NewSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

// NewSilentSource generates silence.
func NewSilentSource(sampleRate, channels, frames int) *Source {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return 4096 }
func (s *Source) Close() error    { return nil }

// Reset rewinds the source to its first frame.
func (s *Source) Reset() {
	s.pos = 0
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	for f := range n {
		for c := range s.channels {
			dst[f*s.channels+c] = s.wave(s.pos+f, c)
		}
	}
	s.pos += n

	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}
