// SPDX-License-Identifier: EPL-2.0

package audiotest

import "github.com/ik5/oplpbx/formats"

// Decoder is a scripted module decoder. Subsong i lasts Ticks[i] ticks at
// Refresh Hz and reports LengthMs[i] as its length.
type Decoder struct {
	Ticks    []int
	LengthMs []uint64
	Refresh  float64
	Meta     formats.Info

	LengthQueries int
	Rewinds       []int
	Seeks         []uint64
	Updates       int
	Closed        bool

	subsong int
	tick    int
	counter *Counter
}

// NewDecoder returns a decoder with len(ticks) subsongs ticking at 50 Hz.
func NewDecoder(counter *Counter, ticks ...int) *Decoder {
	counter.open()
	lengths := make([]uint64, len(ticks))
	for i, t := range ticks {
		lengths[i] = uint64(t) * 20
	}
	return &Decoder{
		Ticks:    ticks,
		LengthMs: lengths,
		Refresh:  50,
		Meta: formats.Info{
			Title:    "Test Song",
			Author:   "Test Author",
			Type:     "Scripted",
			Speed:    6,
			Subsongs: len(ticks),
		},
		counter: counter,
	}
}

func (d *Decoder) Update() bool {
	d.Updates++
	d.tick++
	return d.tick < d.Ticks[d.subsong]
}

func (d *Decoder) Rewind(subsong int) {
	d.Rewinds = append(d.Rewinds, subsong)
	if subsong >= 0 {
		d.subsong = subsong
	}
	d.tick = 0
}

func (d *Decoder) RefreshRate() float64 { return d.Refresh }
func (d *Decoder) Info() formats.Info   { return d.Meta }

func (d *Decoder) SongLength(subsong int) uint64 {
	d.LengthQueries++
	return d.LengthMs[subsong]
}

func (d *Decoder) Seek(ms uint64) {
	d.Seeks = append(d.Seeks, ms)
	d.tick = int(float64(ms) * d.Refresh / 1000)
}

// Tick returns the number of ticks played in the current subsong.
func (d *Decoder) Tick() int { return d.tick }

func (d *Decoder) Close() error {
	if !d.Closed {
		d.Closed = true
		d.counter.close()
	}
	return nil
}
