// SPDX-License-Identifier: EPL-2.0

package oplpbx

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/ik5/oplpbx/audio"
	"github.com/ik5/oplpbx/playback"
	"github.com/ik5/oplpbx/utils"
)

const (
	// DefaultSampleRate is the session rate used when RenderOptions leaves
	// it unset.
	DefaultSampleRate = 44100

	// DefaultLimitMs bounds renders of songs that never report their end.
	DefaultLimitMs = 10 * 60 * 1000
)

// RenderOptions select what is rendered and how.
type RenderOptions struct {
	Subsong    int
	SampleRate int // session rate; DefaultSampleRate when 0
	LimitMs    int // DefaultLimitMs when 0

	// Playback configures the session. The zero value uses the built-in
	// formats, the shared database and the surround synthesizer.
	Playback playback.Options
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.LimitMs <= 0 {
		o.LimitMs = DefaultLimitMs
	}
	return o
}

// Stream is an open module producing interleaved 16-bit stereo PCM.
type Stream struct {
	*playback.Reader

	Session  *playback.Session
	LengthMs uint64
}

// Close tears the session down.
func (s *Stream) Close() error {
	s.Session.Teardown()
	return nil
}

// Open loads the module at path and selects the requested subsong.
func Open(path string, opts RenderOptions) (*Stream, error) {
	opts = opts.withDefaults()

	s := playback.NewSession(opts.Playback)
	if err := s.Init(opts.SampleRate, filepath.Dir(path), filepath.Base(path)); err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	length, err := s.SelectSubsong(opts.Subsong)
	if err != nil {
		s.Teardown()
		return nil, fmt.Errorf("%w", err)
	}

	r := playback.NewReader(s)
	r.MaxFrames = int64(opts.LimitMs) * int64(opts.SampleRate) / 1000
	return &Stream{Reader: r, Session: s, LengthMs: length}, nil
}

// RenderStereo16 renders a subsong of the module at path until it ends or
// the limit is reached. It returns interleaved stereo samples and their
// sample rate.
func RenderStereo16(path string, opts RenderOptions) ([]int16, int, error) {
	opts = opts.withDefaults()

	st, err := Open(path, opts)
	if err != nil {
		return nil, 0, err
	}
	defer st.Close()

	pcm, err := audio.ReadAllInt16(audio.NewPCM16Source(st, opts.SampleRate, 2), 0)
	if err != nil {
		return nil, opts.SampleRate, fmt.Errorf("render: %w", err)
	}
	return pcm, opts.SampleRate, nil
}

// RenderToMono16 renders like RenderStereo16, then mixes down to mono and
// resamples to targetRate.
func RenderToMono16(path string, targetRate int, opts RenderOptions) ([]int16, int, error) {
	opts = opts.withDefaults()

	st, err := Open(path, opts)
	if err != nil {
		return nil, 0, err
	}
	defer st.Close()

	return ResampleToMono16(audio.NewPCM16Source(st, opts.SampleRate, 2), targetRate, 4096)
}

// ResampleToMono16 resamples src to targetRate, mixes it down to mono and
// collects the result as 16-bit PCM. It returns the samples and
// targetRate.
func ResampleToMono16(src audio.Source, targetRate int, bufferSize int) ([]int16, int, error) {
	mono := audio.NewMonoMixer(audio.NewResampler(src, targetRate))

	pcm16 := make([]int16, 0, targetRate*2)
	buf := make([]float32, max(bufferSize, 1))

	for {
		n, err := mono.ReadSamples(buf)
		for _, v := range buf[:n] {
			pcm16 = append(pcm16, utils.Float32ToInt16(v))
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, targetRate, fmt.Errorf("%w", err)
		}
	}

	return pcm16, targetRate, nil
}
