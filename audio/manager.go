package audio

import (
	"sync"

	"step-synth/debug"
)

// Manager allocates and retires voices. It enforces one active voice per
// pitch through the busy registry and owns that registry exclusively; nothing
// else reads or writes it.
type Manager struct {
	engine *Engine

	mu   sync.Mutex
	busy map[int]float64 // pitch -> scheduled stop time
}

// NewManager creates a voice manager bound to an engine
func NewManager(engine *Engine) *Manager {
	m := &Manager{
		engine: engine,
		busy:   make(map[int]float64),
	}
	engine.setDisposeHook(m.voiceDisposed)
	return m
}

// Trigger starts a voice for pitch, sounding for duration seconds plus the
// release tail. It returns false if the pitch is still busy from an earlier
// trigger; that is a debounce, not an error, and is not logged. Two
// overlapping envelopes on the same pitch click.
func (m *Manager) Trigger(pitch int, duration float64, params SynthParams) bool {
	p := params.Clamped()
	if duration < minSegmentSeconds {
		duration = minSegmentSeconds
	}

	now := m.engine.Now()
	stopAt := now + duration + p.Release + p.CleanupEpsilon

	m.mu.Lock()
	if busyUntil, ok := m.busy[pitch]; ok && now < busyUntil-busyEpsilonSeconds {
		m.mu.Unlock()
		return false
	}
	m.busy[pitch] = stopAt
	m.mu.Unlock()

	// a recorded note carries the reverb settings it was captured with;
	// applying them here keeps playback sounding as recorded even after
	// the live controls move on
	if bus := m.engine.Bus(); bus != nil {
		bus.SetReverbMix(p.ReverbMix)
		bus.SetRoomSize(p.ReverbRoomSize)
	}

	v := newVoice(pitch, now, stopAt, p, m.engine.sampleRate)
	m.engine.startVoice(v, duration)
	debug.Log("voice", "trigger pitch=%d dur=%.3f stopAt=%.3f", pitch, duration, stopAt)
	return true
}

// BusyCount returns how many pitches currently have a registered stop time
func (m *Manager) BusyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.busy)
}

// voiceDisposed clears the busy entry for a finished voice, but only if the
// registered stop time is still the one that voice scheduled. A retrigger
// after the busy window may already have overwritten it, and a late-finishing
// voice must not clobber the newer voice's entry.
func (m *Manager) voiceDisposed(pitch int, stopAt float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.busy[pitch]; ok && cur == stopAt {
		delete(m.busy, pitch)
	}
}
