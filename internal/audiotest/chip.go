// SPDX-License-Identifier: EPL-2.0

package audiotest

import "github.com/ik5/oplpbx/opl"

// Counter tracks how many resources were created and released.
type Counter struct {
	Opened int
	Closed int
	// Peak is the highest number of resources live at once.
	Peak int
}

// Live returns the number of resources not yet released.
func (c *Counter) Live() int {
	if c == nil {
		return 0
	}
	return c.Opened - c.Closed
}

func (c *Counter) open() {
	if c != nil {
		c.Opened++
		c.Peak = max(c.Peak, c.Live())
	}
}

func (c *Counter) close() {
	if c != nil {
		c.Closed++
	}
}

// Write is one recorded register write.
type Write struct {
	Chip int
	Reg  int
	Val  int
}

// Chip records register writes and renders a constant sample value.
type Chip struct {
	Writes  []Write
	Inits   int
	Updates int
	Fill    int16
	Closed  bool

	stereo  bool
	chip    int
	counter *Counter
}

// NewChip returns a recording chip registered with counter (which may be nil).
func NewChip(stereo bool, fill int16, counter *Counter) *Chip {
	counter.open()
	return &Chip{stereo: stereo, Fill: fill, counter: counter}
}

func (c *Chip) Init() { c.Inits++ }
func (c *Chip) Write(reg, val int) {
	c.Writes = append(c.Writes, Write{Chip: c.chip, Reg: reg, Val: val})
}
func (c *Chip) SetChip(n int)      { c.chip = n }
func (c *Chip) CurrentChip() int   { return c.chip }
func (c *Chip) Stereo() bool       { return c.stereo }
func (c *Chip) Type() opl.ChipType { return opl.TypeOPL2 }

func (c *Chip) Update(buf []int16, frames int) {
	c.Updates++
	n := min(opl.Samples(c, frames), len(buf))
	for i := range n {
		buf[i] = c.Fill
	}
}

func (c *Chip) Close() error {
	if !c.Closed {
		c.Closed = true
		c.counter.close()
	}
	return nil
}

// Last returns the most recent value written to reg, or -1.
func (c *Chip) Last(reg int) int {
	for i := len(c.Writes) - 1; i >= 0; i-- {
		if c.Writes[i].Reg == reg {
			return c.Writes[i].Val
		}
	}
	return -1
}
