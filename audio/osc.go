package audio

import "math"

// osc is a single phase-accumulator oscillator
type osc struct {
	wave      Waveform
	phase     float64 // 0..1
	phaseStep float64 // per sample
}

func newOsc(wave Waveform, freq, sampleRate float64) *osc {
	return &osc{
		wave:      wave,
		phaseStep: freq / sampleRate,
	}
}

// step advances one sample and returns the value in -1..1
func (o *osc) step() float64 {
	v := 0.0
	switch o.wave {
	case WaveTriangle:
		if o.phase < 0.5 {
			v = 4*o.phase - 1
		} else {
			v = 3 - 4*o.phase
		}
	case WaveSaw:
		v = 2*o.phase - 1
	case WaveSquare:
		if o.phase < 0.5 {
			v = 1
		} else {
			v = -1
		}
	default: // sine
		v = math.Sin(2 * math.Pi * o.phase)
	}

	o.phase += o.phaseStep
	if o.phase >= 1 {
		o.phase -= 1
	}
	return v
}
