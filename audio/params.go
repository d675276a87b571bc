package audio

import "math"

// Waveform identifies the oscillator shape for a voice
type Waveform string

const (
	WaveSine     Waveform = "sine"
	WaveTriangle Waveform = "triangle"
	WaveSaw      Waveform = "saw"
	WaveSquare   Waveform = "square"
)

// Envelope segment times shorter than this are floored up to it.
// Zero-length ramps put a discontinuity in the output, which clicks.
const minSegmentSeconds = 0.001

// SynthParams is an immutable snapshot of everything that shapes a voice's
// timbre. It is copied by value into recorded note events, so later edits to
// the live parameters never change how an already-recorded note sounds.
type SynthParams struct {
	Wave           Waveform `json:"wave"`
	Attack         float64  `json:"attack"`         // seconds
	Decay          float64  `json:"decay"`          // seconds
	Sustain        float64  `json:"sustain"`        // level, 0..1
	Release        float64  `json:"release"`        // seconds
	ReverbMix      float64  `json:"reverbMix"`      // 0..1
	ReverbRoomSize float64  `json:"reverbRoomSize"` // 0..1
	CleanupEpsilon float64  `json:"cleanupEpsilon"` // seconds of grace after release
}

// DefaultParams returns the startup synth parameters
func DefaultParams() SynthParams {
	return SynthParams{
		Wave:           WaveSine,
		Attack:         0.01,
		Decay:          0.08,
		Sustain:        0.7,
		Release:        0.2,
		ReverbMix:      0.3,
		ReverbRoomSize: 0.6,
		CleanupEpsilon: 0.03,
	}
}

// Clamped returns a copy with every field forced into its legal range
func (p SynthParams) Clamped() SynthParams {
	if p.Wave == "" {
		p.Wave = WaveSine
	}
	p.Attack = math.Max(p.Attack, minSegmentSeconds)
	p.Decay = math.Max(p.Decay, minSegmentSeconds)
	p.Sustain = clamp(p.Sustain, 0, 1)
	p.Release = math.Max(p.Release, minSegmentSeconds)
	p.ReverbMix = clamp(p.ReverbMix, 0, 1)
	p.ReverbRoomSize = clamp(p.ReverbRoomSize, 0, 1)
	p.CleanupEpsilon = math.Max(p.CleanupEpsilon, 0)
	return p
}

// PitchToFreq converts a semitone number to Hz (12-TET, A4 = 69 = 440Hz)
func PitchToFreq(pitch int) float64 {
	return 440.0 * math.Pow(2, float64(pitch-69)/12.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
