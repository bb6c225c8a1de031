// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/ik5/oplpbx/database"
	"github.com/ik5/oplpbx/opl"
)

// Session is one playback session. The zero value is not usable; create
// sessions with NewSession.
type Session struct {
	opts Options
	log  *log.Logger

	decoder Decoder
	synth   opl.Chip
	buf     *SampleBuffer
	db      *database.Database

	sampleRate int
	playTime   uint64 // frames rendered since subsong selection
	totalMs    uint64 // cached at selection
	subsong    int
	state      State

	// Sub-tick accumulator of the render loop, in sampleRate units.
	minicnt int64
}

func NewSession(opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{opts: opts, log: opts.Logger}
}

// Init loads moduleName from basePath. Any previous session is torn down
// first. On failure the synthesizer and decoder are released, the sample
// buffer stays allocated and the returned error wraps ErrLoad.
func (s *Session) Init(sampleRate int, basePath, moduleName string) error {
	s.Teardown()

	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	s.buf = newSampleBuffer()
	s.synth = s.opts.NewSynth(sampleRate)
	if s.db == nil {
		s.db = s.opts.Database()
	}

	path := filepath.Join(basePath, moduleName)
	dec, err := s.opts.Opener(path, s.synth, s.db)
	if err != nil {
		s.log.Error("loading module", "path", path, "err", err)
		release(s.synth)
		s.synth = nil
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	s.decoder = dec
	s.sampleRate = sampleRate
	s.state = Loaded
	s.log.Debug("module loaded", "path", path, "rate", sampleRate, "type", dec.Info().Type)
	return nil
}

// Teardown releases the synthesizer, the decoder and the sample buffer.
// It is safe to call on an unloaded session. The format database is
// shared and stays alive.
func (s *Session) Teardown() {
	if s.decoder != nil {
		release(s.decoder)
		s.log.Debug("module released")
	}
	if s.synth != nil {
		release(s.synth)
	}

	s.decoder = nil
	s.synth = nil
	s.buf = nil
	s.sampleRate = 0
	s.playTime = 0
	s.totalMs = 0
	s.subsong = 0
	s.minicnt = 0
	s.state = Unloaded
}

func release(v any) {
	if c, ok := v.(io.Closer); ok {
		c.Close()
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// SampleRate returns the rate the session was initialised with, or 0.
func (s *Session) SampleRate() int { return s.sampleRate }

// Subsong returns the active subsong index.
func (s *Session) Subsong() int { return s.subsong }

// RenderChunk renders one chunk of BufSize frames into the sample buffer.
// It reports Finished once the decoder stops producing audio; the chunk in
// which that happens is still full. After Finished every call leaves the
// buffer empty and the position unchanged until the next SelectSubsong.
func (s *Session) RenderChunk() (Status, error) {
	switch s.state {
	case Unloaded:
		return Finished, ErrNotLoaded
	case Loaded:
		return Finished, ErrNoSubsong
	case Ended:
		s.buf.reset()
		return Finished, nil
	}

	playing := s.frame()
	s.playTime += uint64(s.buf.Len() / FrameBytes)

	if !playing {
		s.state = Ended
		return Finished, nil
	}
	s.state = Rendering
	return Continuing, nil
}

// frame fills the buffer, ticking the decoder at its refresh rate. It
// reports false if any tick in the chunk signalled the end of the song.
func (s *Session) frame() bool {
	playing := true
	rate := int64(s.sampleRate)

	pos := 0
	for pos < BufSize {
		for s.minicnt < 0 {
			s.minicnt += rate
			if !s.decoder.Update() {
				playing = false
			}
		}

		refresh := s.refresh()
		n := min(BufSize-pos, int(float64(s.minicnt)/refresh+4)&^3)
		s.buf.render(s.synth, pos, n)
		pos += n
		s.minicnt -= int64(refresh * float64(n))
	}

	s.buf.commit(pos)
	return playing
}

func (s *Session) refresh() float64 {
	if r := s.decoder.RefreshRate(); r > 0 {
		return r
	}
	return 1
}

// Buffer returns the current chunk as little-endian interleaved 16-bit
// stereo PCM. It is valid until the next RenderChunk and nil when nothing
// is loaded.
func (s *Session) Buffer() []byte {
	if s.buf == nil {
		return nil
	}
	return s.buf.Bytes()
}

// Samples returns the current chunk as interleaved samples.
func (s *Session) Samples() []int16 {
	if s.buf == nil {
		return nil
	}
	return s.buf.Samples()
}

// BufferLen returns the number of valid bytes in Buffer.
func (s *Session) BufferLen() int {
	if s.buf == nil {
		return 0
	}
	return s.buf.Len()
}

// BufferCap returns the buffer capacity in bytes.
func (s *Session) BufferCap() int {
	if s.buf == nil {
		return 0
	}
	return s.buf.Cap()
}
