package audio

import "sync"

// DefaultNoteDuration is the fallback length for a live-played note
const DefaultNoteDuration = 0.25

// LiveParams holds the performer's current synth settings. The UI writes
// them from knobs and toggles; the recorder snapshots them by value into
// every captured note.
type LiveParams struct {
	mu      sync.Mutex
	params  SynthParams
	noteDur float64
}

// NewLiveParams starts from the default patch
func NewLiveParams() *LiveParams {
	return &LiveParams{
		params:  DefaultParams(),
		noteDur: DefaultNoteDuration,
	}
}

// Get returns the current params by value
func (l *LiveParams) Get() SynthParams {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.params
}

// Set replaces the current params (used by preset load)
func (l *LiveParams) Set(p SynthParams) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.params = p.Clamped()
}

// Update applies fn to the current params under the lock (used by knobs)
func (l *LiveParams) Update(fn func(*SynthParams)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(&l.params)
	l.params = l.params.Clamped()
}

// NoteDuration returns the default live-note length in seconds
func (l *LiveParams) NoteDuration() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.noteDur
}

// SetNoteDuration sets the default live-note length
func (l *LiveParams) SetNoteDuration(d float64) {
	if d < minSegmentSeconds {
		d = minSegmentSeconds
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.noteDur = d
}
