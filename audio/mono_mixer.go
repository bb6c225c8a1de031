// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer folds a multi-channel Source to mono by averaging each frame.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{src: src}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	ch := m.src.Channels()
	if ch == 1 || len(dst) == 0 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * ch
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}

	n, err := m.src.ReadSamples(m.tmp[:need])
	frames := n / ch
	scale := 1 / float32(ch)
	for f := range frames {
		var sum float32
		for _, v := range m.tmp[f*ch : (f+1)*ch] {
			sum += v
		}
		dst[f] = sum * scale
	}
	return frames, err
}
