// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/oplpbx/utils"
)

// Resampler converts a Source to another sample rate with Catmull-Rom
// interpolation. When downsampling the input first passes through a
// one-pole low-pass filter tuned just below the target Nyquist frequency.
type Resampler struct {
	src      Source
	channels int
	dstRate  int
	step     float64 // source frames per output frame

	win  []float32 // buffered source frames, interleaved
	cur  int       // frame index in win of the sample left of the output position
	frac float64
	eof  bool
	read []float32

	alpha  float32 // 0 disables the filter
	lp     []float32
	primed bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	ch := src.Channels()
	r := &Resampler{
		src:      src,
		channels: ch,
		dstRate:  dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		read:     make([]float32, max(src.BufSize()/max(ch, 1), 256)*max(ch, 1)),
		lp:       make([]float32, ch),
	}
	if r.step > 1 {
		cutoff := 0.45 * float64(dstRate)
		rc := 1 / (2 * math.Pi * cutoff)
		dt := 1 / float64(src.SampleRate())
		r.alpha = float32(dt / (rc + dt))
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (r *Resampler) frames() int { return len(r.win) / r.channels }

// frame returns source frame i, clamped to the buffered range.
func (r *Resampler) frame(i int) []float32 {
	i = min(max(i, 0), r.frames()-1)
	return r.win[i*r.channels : (i+1)*r.channels]
}

// fill reads until the interpolation window around cur is buffered or the
// source ends.
func (r *Resampler) fill() error {
	for !r.eof && r.cur+2 >= r.frames() {
		// Keep one frame of history left of cur.
		if drop := r.cur - 1; drop > 0 {
			r.win = append(r.win[:0], r.win[drop*r.channels:]...)
			r.cur -= drop
		}

		n, err := r.src.ReadSamples(r.read)
		n -= n % r.channels
		r.filter(r.read[:n])
		r.win = append(r.win, r.read[:n]...)

		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}

func (r *Resampler) filter(s []float32) {
	if r.alpha == 0 || len(s) == 0 {
		return
	}
	if !r.primed {
		copy(r.lp, s[:r.channels])
		r.primed = true
	}
	for i := range s {
		c := i % r.channels
		r.lp[c] += r.alpha * (s[i] - r.lp[c])
		s[i] = r.lp[c]
	}
}

// ReadSamples produces interleaved samples at the target rate. len(dst)
// must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	out := 0
	for out < len(dst) {
		if err := r.fill(); err != nil {
			return out, err
		}
		if r.cur >= r.frames() {
			return out, io.EOF
		}

		y0, y1 := r.frame(r.cur-1), r.frame(r.cur)
		y2, y3 := r.frame(r.cur+1), r.frame(r.cur+2)
		x := float32(r.frac)
		for c := range r.channels {
			dst[out+c] = utils.CubicInterpolate(y0[c], y1[c], y2[c], y3[c], x)
		}
		out += r.channels

		r.frac += r.step
		adv := math.Floor(r.frac)
		r.frac -= adv
		r.cur += int(adv)
	}
	return out, nil
}
