package audio

// Voice timing constants. These are empirically tuned; see DESIGN.md.
const (
	// busyEpsilonSeconds is how close to a voice's stop time a retrigger of
	// the same pitch is allowed again.
	busyEpsilonSeconds = 0.01

	// zeroRampSeconds is the micro-window over which a finished voice's gain
	// is ramped linearly to exact zero before its oscillator is stopped. The
	// envelope's release tail alone is not trusted to reach true zero.
	zeroRampSeconds = 0.005

	// disposeLagSeconds separates oscillator stop from node disposal
	disposeLagSeconds = 0.005
)

// voice is one sounding note: oscillator -> envelope -> per-voice gain.
// Owned exclusively by the Manager; the engine renders it but never holds a
// reference past disposal.
type voice struct {
	pitch     int
	startTime float64
	stopAt    float64 // when the zero-ramp begins

	osc *osc
	env *envelope

	// per-voice gain, ramped to exact zero at teardown
	gain        float64
	rampStep    float64
	rampSamples int // remaining, 0 = not ramping

	stopped  bool // oscillator stopped, renders nothing
	disposed bool // ready to be removed from the engine
}

func newVoice(pitch int, startTime, stopAt float64, p SynthParams, sampleRate float64) *voice {
	return &voice{
		pitch:     pitch,
		startTime: startTime,
		stopAt:    stopAt,
		osc:       newOsc(p.Wave, PitchToFreq(pitch), sampleRate),
		env:       newEnvelope(p, sampleRate),
		gain:      1,
	}
}

// beginZeroRamp starts the teardown gain ramp. The last sample of the ramp
// lands on exactly zero.
func (v *voice) beginZeroRamp(sampleRate float64) {
	n := int(zeroRampSeconds * sampleRate)
	if n < 1 {
		n = 1
	}
	v.rampSamples = n
	v.rampStep = v.gain / float64(n)
}

// sample renders one sample of this voice
func (v *voice) sample() float64 {
	if v.stopped || v.disposed {
		return 0
	}
	if v.rampSamples > 0 {
		v.rampSamples--
		if v.rampSamples == 0 {
			v.gain = 0
		} else {
			v.gain -= v.rampStep
		}
	}
	return v.osc.step() * v.env.step() * v.gain
}
