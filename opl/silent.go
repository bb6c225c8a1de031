// SPDX-License-Identifier: EPL-2.0

package opl

// Silent discards all register writes and renders silence.
// Module players are pointed at a Silent chip while their song length
// is measured.
type Silent struct {
	stereo bool
	chip   int
}

func NewSilent(stereo bool) *Silent {
	return &Silent{stereo: stereo}
}

func (s *Silent) Init()              {}
func (s *Silent) Write(reg, val int) {}
func (s *Silent) SetChip(n int)      { s.chip = n }
func (s *Silent) CurrentChip() int   { return s.chip }
func (s *Silent) Stereo() bool       { return s.stereo }
func (s *Silent) Type() ChipType     { return TypeOPL2 }

func (s *Silent) Update(buf []int16, frames int) {
	n := min(Samples(s, frames), len(buf))
	clear(buf[:n])
}
