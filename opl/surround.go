// SPDX-License-Identifier: EPL-2.0

package opl

import "math"

// DefaultSurroundOffset is the detune divisor used by the playback session:
// the right chip plays every note at freq + freq/384.
const DefaultSurroundOffset = 384

// Surround combines two mono chips into one stereo chip. Every write goes
// to both chips; frequency writes reaching the second chip are detuned by
// freq/offset so the two channels drift slightly against each other.
type Surround struct {
	left, right Chip
	offset      float64
	chip        int

	regs  [2][256]uint8 // last value written per register bank
	tuned [2][256]uint8 // detuned values sent to the right chip

	lbuf, rbuf []int16
}

// NewSurround builds a stereo chip from two mono chips. Stereo inputs are
// not supported; the left channel of each would be used.
func NewSurround(left, right Chip, offset int) *Surround {
	if offset <= 0 {
		offset = DefaultSurroundOffset
	}
	return &Surround{left: left, right: right, offset: float64(offset)}
}

func (s *Surround) Stereo() bool     { return true }
func (s *Surround) Type() ChipType   { return s.left.Type() }
func (s *Surround) CurrentChip() int { return s.chip }

func (s *Surround) SetChip(n int) {
	s.chip = n
	s.left.SetChip(n)
	s.right.SetChip(n)
}

func (s *Surround) Init() {
	s.left.Init()
	s.right.Init()
	s.regs = [2][256]uint8{}
	s.tuned = [2][256]uint8{}
}

func (s *Surround) Write(reg, val int) {
	s.left.Write(reg, val)

	bank := s.chip & 1
	reg &= 0xff
	s.regs[bank][reg] = uint8(val)

	switch {
	case reg >= 0xa0 && reg <= 0xa8, reg >= 0xb0 && reg <= 0xb8:
		s.detune(bank, reg&0x0f)
	default:
		s.right.Write(reg, val)
	}
}

// detune recomputes channel c of bank for the right chip.
func (s *Surround) detune(bank, c int) {
	lo := s.regs[bank][0xa0+c]
	hi := s.regs[bank][0xb0+c]

	fnum := uint16(hi&3)<<8 | uint16(lo)
	block := (hi >> 2) & 7

	freq := fnumToHz(fnum, block)
	freq += freq / s.offset

	newBlock := block
	newFnum := hzToFnum(freq, newBlock)
	for newFnum > 1023 && newBlock < 7 {
		newBlock++
		newFnum = hzToFnum(freq, newBlock)
	}
	if newFnum > 1023 {
		// Nothing fits; keep the original pitch.
		newBlock, newFnum = block, fnum
	}

	newLo := uint8(newFnum & 0xff)
	newHi := hi&0xe0 | newBlock<<2 | uint8(newFnum>>8)

	if s.tuned[bank][0xa0+c] != newLo {
		s.tuned[bank][0xa0+c] = newLo
		s.right.Write(0xa0+c, int(newLo))
	}
	if s.tuned[bank][0xb0+c] != newHi {
		s.tuned[bank][0xb0+c] = newHi
		s.right.Write(0xb0+c, int(newHi))
	}
}

func hzToFnum(freq float64, block uint8) uint16 {
	return uint16(math.Round(freq * float64(uint32(1)<<(20-block)) / NativeRate))
}

// Update renders frames stereo frames, left from the first chip and right
// from the second.
func (s *Surround) Update(buf []int16, frames int) {
	frames = min(frames, len(buf)/2)
	if cap(s.lbuf) < frames {
		s.lbuf = make([]int16, frames)
		s.rbuf = make([]int16, frames)
	}
	l, r := s.lbuf[:frames], s.rbuf[:frames]

	s.left.Update(l, frames)
	s.right.Update(r, frames)

	for i := range frames {
		buf[2*i] = l[i]
		buf[2*i+1] = r[i]
	}
}
