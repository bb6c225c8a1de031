// SPDX-License-Identifier: EPL-2.0

package opl

import "math"

const (
	// NativeRate is the YM3812 output rate: 14.31818 MHz / 288.
	NativeRate = 49716.0

	numChannels = 9
	sineBits    = 10
	sineSize    = 1 << sineBits

	// Attenuation (dB) at which an operator is considered silent.
	maxAttenuation = 96.0

	// Phase offset, in cycles, produced by a full-scale modulator.
	modulationDepth = 4.0

	// Amplitude of one channel at 0 dB.
	channelGain = 3072.0

	tremoloRate = 3.7
	vibratoRate = 6.1
)

// multTable maps the 4-bit MULT field to a frequency multiplier.
var multTable = [16]float64{0.5, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 12, 12, 15, 15}

// feedbackTable maps the 3-bit FB field to a phase offset in cycles per
// unit of modulator output; FB=1 is pi/16, FB=7 is 4*pi.
var feedbackTable = [8]float64{0, 1.0 / 32, 1.0 / 16, 1.0 / 8, 1.0 / 4, 1.0 / 2, 1, 2}

// kslOctave7 holds the key scale attenuation (dB) of the top octave,
// indexed by the four most significant F-number bits.
var kslOctave7 = [16]float64{
	0, 9, 12, 13.875, 15, 16.125, 16.875, 17.625,
	18, 18.75, 19.125, 19.5, 19.875, 20.25, 20.625, 21,
}

// kslScale orders the KSL field bits as documented: 00 none, 10 1.5dB/oct,
// 01 3dB/oct, 11 6dB/oct.
var kslScale = [4]float64{0, 1, 0.5, 2}

// operatorSlots maps a register offset (0x00-0x15) to channel and
// operator; -1 marks unused offsets.
var operatorSlots = [0x16][2]int{
	{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}, {-1, -1}, {-1, -1},
	{3, 0}, {4, 0}, {5, 0}, {3, 1}, {4, 1}, {5, 1}, {-1, -1}, {-1, -1},
	{6, 0}, {7, 0}, {8, 0}, {6, 1}, {7, 1}, {8, 1},
}

var sineTable = func() [sineSize]float64 {
	var t [sineSize]float64
	for i := range t {
		t[i] = math.Sin(2 * math.Pi * float64(i) / sineSize)
	}
	return t
}()

// waveform evaluates OPL2 waveform w at phase p (cycles, [0,1)).
func waveform(w uint8, p float64) float64 {
	idx := int(p*sineSize) & (sineSize - 1)
	s := sineTable[idx]
	switch w & 3 {
	case 1: // half sine
		if idx >= sineSize/2 {
			return 0
		}
		return s
	case 2: // absolute sine
		return math.Abs(s)
	case 3: // pulse sine
		if idx&(sineSize/2-1) >= sineSize/4 {
			return 0
		}
		return math.Abs(s)
	default:
		return s
	}
}

// kslAttenuation returns the key scale attenuation in dB.
func kslAttenuation(ksl uint8, fnum uint16, block uint8) float64 {
	if ksl == 0 {
		return 0
	}
	att := kslOctave7[fnum>>6] - 3*float64(7-block)
	if att < 0 {
		return 0
	}
	return att * kslScale[ksl&3]
}

// attackMs returns the 96dB attack time for an effective rate (0-63).
func attackMs(rate int) float64 {
	return 2826.24 / math.Pow(2, float64(rate-4)/4)
}

// decayMs returns the 96dB decay/release time for an effective rate.
func decayMs(rate int) float64 {
	return 39280.64 / math.Pow(2, float64(rate-4)/4)
}

func dbToLinear(db float64) float64 {
	if db >= maxAttenuation {
		return 0
	}
	return math.Pow(10, -db/20)
}

// fnumToHz converts an F-number / block pair to a frequency.
func fnumToHz(fnum uint16, block uint8) float64 {
	return float64(fnum) * NativeRate / float64(uint32(1)<<(20-block))
}
