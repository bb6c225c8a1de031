// SPDX-License-Identifier: EPL-2.0

package opl

import "math"

type egPhase uint8

const (
	egOff egPhase = iota
	egAttack
	egDecay
	egSustain
	egRelease
)

// operator holds decoded register state and runtime state of one slot.
type operator struct {
	am   bool  // tremolo enable
	vib  bool  // vibrato enable
	egt  bool  // sustained envelope (hold at sustain level until key off)
	ksr  bool  // key scale rate
	mult uint8 // frequency multiplier index
	ksl  uint8 // key scale level
	tl   uint8 // total level, 0.75dB steps
	ar   uint8 // attack rate
	dr   uint8 // decay rate
	sl   uint8 // sustain level
	rr   uint8 // release rate
	wave uint8 // waveform select

	phase float64 // cycles, [0,1)
	step  float64 // cycles per output sample
	eg    egPhase
	level float64 // envelope attenuation in dB

	attackStep  float64 // dB per sample, 0 when the rate is 0
	decayStep   float64
	releaseStep float64
	kslAtt      float64

	prev [2]float64 // last two outputs, used for feedback
}

type channel struct {
	fnum     uint16
	block    uint8
	keyOn    bool
	feedback uint8
	additive bool
	op       [2]operator
}

// Emulator is a mono YM3812 (OPL2) FM model.
//
// It implements the two-operator channels, the four OPL2 waveforms, the
// envelope generator and the tremolo/vibrato LFOs. Rhythm mode drums are
// not modelled; channels 6-8 always play as melodic channels.
type Emulator struct {
	sampleRate float64
	chip       int

	waveSelect bool
	deepAM     bool
	deepVib    bool
	nts        bool

	ch [numChannels]channel

	lfoAM  float64 // cycles
	lfoVib float64
}

// NewEmulator returns an initialised OPL2 emulator rendering at sampleRate.
func NewEmulator(sampleRate int) *Emulator {
	e := &Emulator{sampleRate: float64(sampleRate)}
	e.Init()
	return e
}

func (e *Emulator) SetChip(n int)    { e.chip = n }
func (e *Emulator) CurrentChip() int { return e.chip }
func (e *Emulator) Stereo() bool     { return false }
func (e *Emulator) Type() ChipType   { return TypeOPL2 }

func (e *Emulator) Init() {
	chip := e.chip
	*e = Emulator{sampleRate: e.sampleRate, chip: chip}
	for c := range e.ch {
		for o := range e.ch[c].op {
			op := &e.ch[c].op[o]
			op.eg = egOff
			op.level = maxAttenuation
		}
	}
}

// Write decodes a register write. Writes to any chip other than 0 are
// ignored, as a single YM3812 only has one register bank.
func (e *Emulator) Write(reg, val int) {
	if e.chip != 0 {
		return
	}
	reg &= 0xff
	v := uint8(val)

	switch {
	case reg == 0x01:
		e.waveSelect = v&0x20 != 0
	case reg == 0x08:
		e.nts = v&0x40 != 0
	case reg >= 0x20 && reg <= 0x35:
		if op, c := e.slot(reg - 0x20); op != nil {
			op.am = v&0x80 != 0
			op.vib = v&0x40 != 0
			op.egt = v&0x20 != 0
			op.ksr = v&0x10 != 0
			op.mult = v & 0x0f
			e.refresh(c)
		}
	case reg >= 0x40 && reg <= 0x55:
		if op, c := e.slot(reg - 0x40); op != nil {
			op.ksl = v >> 6
			op.tl = v & 0x3f
			e.refresh(c)
		}
	case reg >= 0x60 && reg <= 0x75:
		if op, c := e.slot(reg - 0x60); op != nil {
			op.ar = v >> 4
			op.dr = v & 0x0f
			e.refresh(c)
		}
	case reg >= 0x80 && reg <= 0x95:
		if op, c := e.slot(reg - 0x80); op != nil {
			op.sl = v >> 4
			op.rr = v & 0x0f
			e.refresh(c)
		}
	case reg >= 0xa0 && reg <= 0xa8:
		c := reg - 0xa0
		e.ch[c].fnum = e.ch[c].fnum&0x300 | uint16(v)
		e.refresh(c)
	case reg >= 0xb0 && reg <= 0xb8:
		c := reg - 0xb0
		ch := &e.ch[c]
		ch.fnum = ch.fnum&0xff | uint16(v&3)<<8
		ch.block = (v >> 2) & 7
		e.refresh(c)
		e.key(ch, v&0x20 != 0)
	case reg == 0xbd:
		e.deepAM = v&0x80 != 0
		e.deepVib = v&0x40 != 0
	case reg >= 0xc0 && reg <= 0xc8:
		ch := &e.ch[reg-0xc0]
		ch.feedback = (v >> 1) & 7
		ch.additive = v&1 != 0
	case reg >= 0xe0 && reg <= 0xf5:
		if op, _ := e.slot(reg - 0xe0); op != nil {
			op.wave = v & 3
		}
	}
}

func (e *Emulator) slot(offset int) (*operator, int) {
	s := operatorSlots[offset]
	if s[0] < 0 {
		return nil, -1
	}
	return &e.ch[s[0]].op[s[1]], s[0]
}

func (e *Emulator) key(ch *channel, on bool) {
	if on == ch.keyOn {
		return
	}
	ch.keyOn = on
	for i := range ch.op {
		op := &ch.op[i]
		if on {
			op.phase = 0
			op.eg = egAttack
		} else if op.eg != egOff {
			op.eg = egRelease
		}
	}
}

// refresh recomputes the frequency and envelope rates of channel c.
func (e *Emulator) refresh(c int) {
	ch := &e.ch[c]
	base := fnumToHz(ch.fnum, ch.block)

	rof := int(ch.block) << 1
	if e.nts {
		rof |= int(ch.fnum>>8) & 1
	} else {
		rof |= int(ch.fnum>>9) & 1
	}

	perMs := e.sampleRate / 1000
	for i := range ch.op {
		op := &ch.op[i]
		op.step = base * multTable[op.mult] / e.sampleRate
		op.kslAtt = kslAttenuation(op.ksl, ch.fnum, ch.block)

		scale := rof >> 2
		if op.ksr {
			scale = rof
		}
		op.attackStep = envelopeStep(op.ar, scale, perMs, attackMs)
		op.decayStep = envelopeStep(op.dr, scale, perMs, decayMs)
		op.releaseStep = envelopeStep(op.rr, scale, perMs, decayMs)
	}
}

// envelopeStep returns the per-sample dB change for a 4-bit rate. A rate
// of 0 never moves; effective rates of 60 and above are instantaneous.
func envelopeStep(rate uint8, scale int, perMs float64, timing func(int) float64) float64 {
	if rate == 0 {
		return 0
	}
	eff := min(int(rate)*4+scale, 63)
	if eff >= 60 {
		return maxAttenuation
	}
	return maxAttenuation / (timing(eff) * perMs)
}

func (op *operator) envelope() {
	switch op.eg {
	case egAttack:
		if op.attackStep == 0 {
			return
		}
		op.level -= op.attackStep
		if op.level <= 0 {
			op.level = 0
			op.eg = egDecay
		}
	case egDecay:
		sustain := float64(op.sl) * 3
		if op.sl == 15 {
			sustain = 93
		}
		op.level += op.decayStep
		if op.level >= sustain {
			op.level = sustain
			op.eg = egSustain
		}
	case egSustain:
		if !op.egt {
			op.level += op.releaseStep
		}
	case egRelease:
		op.level += op.releaseStep
	}
	if op.level >= maxAttenuation {
		op.level = maxAttenuation
		if op.eg != egAttack {
			op.eg = egOff
		}
	}
}

// output advances the operator by one sample and returns its signal,
// phase modulated by mod (cycles).
func (op *operator) output(e *Emulator, mod, tremolo, vibrato float64) float64 {
	op.envelope()
	if op.eg == egOff {
		op.prev = [2]float64{}
		return 0
	}

	att := op.level + float64(op.tl)*0.75 + op.kslAtt
	if op.am {
		att += tremolo
	}

	w := uint8(0)
	if e.waveSelect {
		w = op.wave
	}
	p := op.phase + mod
	p -= math.Floor(p)
	out := waveform(w, p) * dbToLinear(att)

	step := op.step
	if op.vib {
		step *= vibrato
	}
	op.phase += step
	op.phase -= math.Floor(op.phase)

	op.prev[1] = op.prev[0]
	op.prev[0] = out
	return out
}

// Update renders frames mono samples into buf.
func (e *Emulator) Update(buf []int16, frames int) {
	frames = min(frames, len(buf))

	amDepth := 1.0
	if e.deepAM {
		amDepth = 4.8
	}
	vibDepth := 7.0
	if e.deepVib {
		vibDepth = 14.0
	}

	for i := range frames {
		tremolo := amDepth * (0.5 + 0.5*math.Sin(2*math.Pi*e.lfoAM))
		vibrato := math.Pow(2, vibDepth*math.Sin(2*math.Pi*e.lfoVib)/1200)
		e.lfoAM += tremoloRate / e.sampleRate
		e.lfoAM -= math.Floor(e.lfoAM)
		e.lfoVib += vibratoRate / e.sampleRate
		e.lfoVib -= math.Floor(e.lfoVib)

		var mix float64
		for c := range e.ch {
			ch := &e.ch[c]
			mod, car := &ch.op[0], &ch.op[1]
			if mod.eg == egOff && car.eg == egOff {
				continue
			}

			fb := feedbackTable[ch.feedback] * (mod.prev[0] + mod.prev[1]) / 2
			m := mod.output(e, fb, tremolo, vibrato)
			if ch.additive {
				mix += m + car.output(e, 0, tremolo, vibrato)
			} else {
				mix += car.output(e, m*modulationDepth, tremolo, vibrato)
			}
		}

		buf[i] = clampInt16(mix * channelGain)
	}
}

func clampInt16(v float64) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}
