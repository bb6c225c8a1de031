// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"encoding/binary"

	"github.com/ik5/oplpbx/opl"
)

const (
	// BufSize is the chunk size in stereo frames.
	BufSize = 1024

	// FrameBytes is the size of one interleaved 16-bit stereo frame.
	FrameBytes = 4
)

// SampleBuffer is the fixed staging area one chunk is rendered into.
// It is allocated once per session and never resized.
type SampleBuffer struct {
	samples []int16
	mono    []int16
	bytes   []byte
	frames  int
}

func newSampleBuffer() *SampleBuffer {
	return &SampleBuffer{
		samples: make([]int16, BufSize*2),
		bytes:   make([]byte, BufSize*FrameBytes),
	}
}

// Bytes returns the valid part of the buffer as little-endian PCM.
func (b *SampleBuffer) Bytes() []byte { return b.bytes[:b.frames*FrameBytes] }

// Samples returns the valid part of the buffer as interleaved samples.
func (b *SampleBuffer) Samples() []int16 { return b.samples[:b.frames*2] }

// Len returns the number of valid bytes.
func (b *SampleBuffer) Len() int { return b.frames * FrameBytes }

// Frames returns the number of valid stereo frames.
func (b *SampleBuffer) Frames() int { return b.frames }

// Cap returns the capacity in bytes.
func (b *SampleBuffer) Cap() int { return len(b.bytes) }

func (b *SampleBuffer) reset() { b.frames = 0 }

// render asks chip for frames frames starting at frame pos. Mono chips
// are duplicated to both channels.
func (b *SampleBuffer) render(chip opl.Chip, pos, frames int) {
	if chip.Stereo() {
		chip.Update(b.samples[pos*2:], frames)
		return
	}
	if cap(b.mono) < frames {
		b.mono = make([]int16, BufSize)
	}
	mono := b.mono[:frames]
	chip.Update(mono, frames)
	for i, v := range mono {
		b.samples[2*(pos+i)] = v
		b.samples[2*(pos+i)+1] = v
	}
}

// commit marks frames as valid and encodes them to bytes.
func (b *SampleBuffer) commit(frames int) {
	b.frames = frames
	for i, v := range b.samples[:frames*2] {
		binary.LittleEndian.PutUint16(b.bytes[2*i:], uint16(v))
	}
}
