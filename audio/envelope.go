package audio

// envelope stages
type envStage int

const (
	envIdle envStage = iota
	envAttack
	envDecay
	envSustain
	envRelease
	envDone
)

// envelope is a linear ADSR amplitude shaper, stepped once per sample.
// Stage transitions are driven by the engine's task queue (gateOn/gateOff),
// never by wall-clock time. Ramps count whole samples and snap the final
// sample onto the target level, so accumulated float error never shifts a
// stage boundary.
type envelope struct {
	attackSamples  int
	decaySamples   int
	releaseSamples int
	sustain        float64

	stage    envStage
	value    float64
	target   float64
	rampStep float64
	left     int // samples remaining in the current ramp
}

func newEnvelope(p SynthParams, sampleRate float64) *envelope {
	return &envelope{
		attackSamples:  wholeSamples(p.Attack, sampleRate),
		decaySamples:   wholeSamples(p.Decay, sampleRate),
		releaseSamples: wholeSamples(p.Release, sampleRate),
		sustain:        p.Sustain,
	}
}

func wholeSamples(seconds, sampleRate float64) int {
	n := int(seconds * sampleRate)
	if n < 1 {
		n = 1
	}
	return n
}

// gateOn starts the attack ramp
func (e *envelope) gateOn() {
	e.stage = envAttack
	e.ramp(1, e.attackSamples)
}

// gateOff starts the release ramp from the current value
func (e *envelope) gateOff() {
	if e.stage == envDone {
		return
	}
	// the fall rate is fixed, so a note released mid-attack fades out in
	// time proportional to its current level
	n := int(e.value * float64(e.releaseSamples))
	e.stage = envRelease
	e.ramp(0, n)
}

// ramp starts a linear segment from the current value to target
func (e *envelope) ramp(target float64, samples int) {
	if samples < 1 {
		samples = 1
	}
	e.target = target
	e.left = samples
	e.rampStep = (target - e.value) / float64(samples)
}

// step advances one sample and returns the current gain
func (e *envelope) step() float64 {
	switch e.stage {
	case envAttack:
		if e.advance() {
			e.stage = envDecay
			e.ramp(e.sustain, e.decaySamples)
		}
	case envDecay:
		if e.advance() {
			e.stage = envSustain
		}
	case envRelease:
		if e.advance() {
			e.stage = envDone
		}
	}
	return e.value
}

// advance moves one sample along the current ramp and reports whether it
// finished; the final sample lands on the target exactly
func (e *envelope) advance() bool {
	e.left--
	if e.left <= 0 {
		e.value = e.target
		return true
	}
	e.value += e.rampStep
	return false
}
