// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/oplpbx/utils"
)

// maxEmptyReads bounds how often a source may return no data and no
// error before draining gives up.
const maxEmptyReads = 100

// ReadAllInt16 drains src, converting every sample to 16-bit PCM. The
// source is not closed.
func ReadAllInt16(src Source, bufSize int) ([]int16, error) {
	var out []int16
	err := drain(src, bufSize, func(s []float32) {
		for _, v := range s {
			out = append(out, utils.Float32ToInt16(v))
		}
	})
	return out, err
}

// ReadAllFloat drains src into one slice.
func ReadAllFloat(src Source, bufSize int) ([]float32, error) {
	var out []float32
	err := drain(src, bufSize, func(s []float32) {
		out = append(out, s...)
	})
	return out, err
}

func drain(src Source, bufSize int, sink func([]float32)) error {
	ch := max(src.Channels(), 1)
	if bufSize <= 0 {
		bufSize = src.BufSize()
	}
	buf := make([]float32, max(bufSize-bufSize%ch, ch))

	empty := 0
	for {
		n, err := src.ReadSamples(buf)
		sink(buf[:n])

		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("%w", err)
		case n == 0:
			empty++
			if empty >= maxEmptyReads {
				return io.ErrNoProgress
			}
		default:
			empty = 0
		}
	}
}
