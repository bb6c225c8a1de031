// SPDX-License-Identifier: EPL-2.0

package opl

// ChipType identifies the hardware a Chip models.
type ChipType int

const (
	TypeOPL2 ChipType = iota
	TypeOPL3
	TypeDualOPL2
)

func (t ChipType) String() string {
	switch t {
	case TypeOPL2:
		return "OPL2"
	case TypeOPL3:
		return "OPL3"
	case TypeDualOPL2:
		return "Dual OPL2"
	default:
		return "unknown"
	}
}

// Chip is an OPL register sink that can render PCM.
type Chip interface {
	// Init resets every register and silences all channels.
	Init()
	// Write stores val into register reg of the currently selected chip.
	Write(reg, val int)
	// SetChip selects the chip (or register bank) that receives writes.
	SetChip(n int)
	// CurrentChip returns the chip selected by SetChip.
	CurrentChip() int
	// Update renders frames sample frames into buf.
	// Stereo chips write 2*frames interleaved values.
	Update(buf []int16, frames int)
	// Stereo reports whether Update produces interleaved stereo.
	Stereo() bool
	// Type returns the modelled hardware.
	Type() ChipType
}

// Samples returns the number of int16 values a chip writes for frames.
func Samples(c Chip, frames int) int {
	if c.Stereo() {
		return frames * 2
	}
	return frames
}
