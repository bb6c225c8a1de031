// SPDX-License-Identifier: EPL-2.0

package playback

import "io"

// Reader streams a session as little-endian interleaved 16-bit stereo PCM.
// Each chunk is copied out before the next one is rendered. Read returns
// io.EOF after the chunk that finished the subsong, or once MaxFrames
// frames were produced when it is set.
type Reader struct {
	s       *Session
	pending []byte
	done    bool

	// MaxFrames limits the stream length; 0 means no limit.
	MaxFrames int64
	frames    int64
}

// NewReader returns a Reader over s. A subsong must already be selected.
func NewReader(s *Session) *Reader {
	return &Reader{s: s}
}

func (r *Reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.pending) == 0 {
			if r.done {
				break
			}
			if err := r.fill(); err != nil {
				return n, err
			}
			continue
		}
		c := copy(p[n:], r.pending)
		r.pending = r.pending[c:]
		n += c
	}

	if n == 0 && r.done && len(r.pending) == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (r *Reader) fill() error {
	st, err := r.s.RenderChunk()
	if err != nil {
		return err
	}
	if st == Finished {
		r.done = true
	}

	chunk := r.s.Buffer()
	if r.MaxFrames > 0 {
		left := (r.MaxFrames - r.frames) * FrameBytes
		if int64(len(chunk)) >= left {
			chunk = chunk[:left]
			r.done = true
		}
	}
	r.frames += int64(len(chunk) / FrameBytes)
	r.pending = chunk
	return nil
}

// Frames returns the number of frames handed out so far, including those
// still buffered.
func (r *Reader) Frames() int64 { return r.frames }
