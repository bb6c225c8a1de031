// SPDX-License-Identifier: EPL-2.0

package reference

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/oplpbx/audio"
)

// Result summarises the difference between two mono signals.
type Result struct {
	Frames     int     // frames compared
	Extra      int     // frames present in only one signal
	RMS        float64 // root mean square of the difference
	Peak       float64 // largest absolute difference
	RefRMS     float64 // level of the reference, for scale
	Correlated float64 // normalised cross-correlation at lag 0
}

// Within reports whether the RMS difference is at most tol.
func (r Result) Within(tol float64) bool {
	return r.Frames > 0 && r.RMS <= tol
}

func (r Result) String() string {
	return fmt.Sprintf("frames=%d extra=%d rms=%.5f peak=%.5f ref_rms=%.5f corr=%.4f",
		r.Frames, r.Extra, r.RMS, r.Peak, r.RefRMS, r.Correlated)
}

// Compare reads both sources to the end and compares them frame by frame.
// got is mixed down to mono and resampled to the rate of ref (also mixed
// down), so a stereo 44.1kHz rendering can be held against a mono 48kHz
// recording. Neither source is closed.
func Compare(ref, got audio.Source) (Result, error) {
	if ref.SampleRate() <= 0 || got.SampleRate() <= 0 {
		return Result{}, ErrNoAudio
	}

	var refMono, gotMono audio.Source = ref, got
	if ref.Channels() != 1 {
		refMono = audio.NewMonoMixer(ref)
	}
	if got.Channels() != 1 {
		gotMono = audio.NewMonoMixer(got)
	}
	if gotMono.SampleRate() != refMono.SampleRate() {
		gotMono = audio.NewResampler(gotMono, refMono.SampleRate())
	}

	a, err := audio.ReadAllFloat(refMono, 0)
	if err != nil {
		return Result{}, fmt.Errorf("read reference: %w", err)
	}
	b, err := audio.ReadAllFloat(gotMono, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("read rendering: %w", err)
	}
	return compareMono(a, b), nil
}

func compareMono(a, b []float32) Result {
	n := min(len(a), len(b))
	res := Result{Frames: n, Extra: max(len(a), len(b)) - n}
	if n == 0 {
		return res
	}

	var diff, ref, ab, aa, bb float64
	for i := range n {
		x, y := float64(a[i]), float64(b[i])
		d := x - y
		diff += d * d
		ref += x * x
		ab += x * y
		aa += x * x
		bb += y * y
		res.Peak = max(res.Peak, math.Abs(d))
	}
	res.RMS = math.Sqrt(diff / float64(n))
	res.RefRMS = math.Sqrt(ref / float64(n))
	if aa > 0 && bb > 0 {
		res.Correlated = ab / math.Sqrt(aa*bb)
	}
	return res
}
