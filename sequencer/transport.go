package sequencer

import "sync"

// Step duration bounds in seconds
const (
	MinStepDuration = 0.03
	MaxStepDuration = 1.0
)

// Transport holds the play/record flags, the step length, and the playhead.
// Playing and recording are mutually exclusive: setting either forces the
// other off.
type Transport struct {
	mu        sync.Mutex
	playing   bool
	recording bool
	stepDur   float64
	playhead  int
}

// NewTransport starts stopped at 120bpm sixteenth notes
func NewTransport() *Transport {
	return &Transport{stepDur: 0.125}
}

// Playing reports whether the clock is running
func (t *Transport) Playing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}

// SetPlaying sets the playing flag; turning it on disarms recording
func (t *Transport) SetPlaying(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.playing = on
	if on {
		t.recording = false
	}
}

// Recording reports whether the recorder is armed
func (t *Transport) Recording() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recording
}

// SetRecording arms or disarms the recorder; arming stops playback
func (t *Transport) SetRecording(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recording = on
	if on {
		t.playing = false
	}
}

// StepDuration returns the step length in seconds
func (t *Transport) StepDuration() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stepDur
}

// SetStepDuration sets the step length, clamped to [0.03, 1.0] seconds
func (t *Transport) SetStepDuration(d float64) {
	if d < MinStepDuration {
		d = MinStepDuration
	}
	if d > MaxStepDuration {
		d = MaxStepDuration
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stepDur = d
}

// Playhead returns the current step index
func (t *Transport) Playhead() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playhead
}

// SetPlayhead aligns the playhead to slot mod 16
func (t *Transport) SetPlayhead(slot int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.playhead = ((slot % NumSlots) + NumSlots) % NumSlots
}

// AdvancePlayhead moves the playhead one step forward and returns the slot it
// moved past (the one that was just played)
func (t *Transport) AdvancePlayhead() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	played := t.playhead
	t.playhead = (t.playhead + 1) % NumSlots
	return played
}
