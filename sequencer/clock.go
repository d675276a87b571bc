package sequencer

import (
	"sync"
	"time"

	"step-synth/audio"
	"step-synth/debug"
)

// NoteTrigger dispatches one note into the synth layer. audio.Manager
// satisfies it; tests substitute a recorder fake.
type NoteTrigger interface {
	Trigger(pitch int, duration float64, params audio.SynthParams) bool
}

// Clock drives step playback. It is either stopped or running; Play starts a
// single goroutine that fires the first tick immediately (so the first step
// has no perceived lag) and then keeps an absolute deadline for each
// following tick. The next deadline is always previous+step, never
// now+step, so per-tick jitter cannot accumulate into tempo drift.
type Clock struct {
	seq       *Sequence
	transport *Transport
	trig      NoteTrigger

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}

	// UpdateChan gets a non-blocking signal after every tick for the UI
	UpdateChan chan struct{}
}

// NewClock creates a stopped clock
func NewClock(seq *Sequence, transport *Transport, trig NoteTrigger) *Clock {
	return &Clock{
		seq:        seq,
		transport:  transport,
		trig:       trig,
		UpdateChan: make(chan struct{}, 1),
	}
}

// Running reports whether the clock loop is live
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Play aligns the playhead to startSlot and starts the tick loop. Calling it
// while already running does nothing.
func (c *Clock) Play(startSlot int) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stopChan = make(chan struct{})
	stop := c.stopChan
	c.mu.Unlock()

	c.transport.SetPlayhead(startSlot)
	c.transport.SetPlaying(true)
	debug.Log("clock", "play from slot %d", c.transport.Playhead())

	go c.run(stop)
}

// Stop cancels pending ticks. Voices already triggered are not cut short;
// each one finishes its own scheduled teardown.
func (c *Clock) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stopChan)
	c.mu.Unlock()

	c.transport.SetPlaying(false)
	debug.Log("clock", "stopped")
}

func (c *Clock) run(stop chan struct{}) {
	// first tick fires immediately
	next := time.Now()
	for {
		c.tick()

		next = next.Add(c.stepInterval())
		wait := time.Until(next)
		if wait < 0 {
			// the previous tick's work overran; fire as soon as possible
			// rather than resetting the timeline
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// tick plays every note in the current slot of each unmuted track, then
// advances the playhead. Each event carries its own recorded synth params;
// the live globals are deliberately not consulted here.
func (c *Clock) tick() {
	slot := c.transport.Playhead()
	for track := 0; track < NumTracks; track++ {
		if c.seq.Muted(track) {
			continue
		}
		for _, ev := range c.seq.At(track, slot) {
			c.trig.Trigger(ev.Pitch, ev.Duration, ev.Synth)
		}
	}
	c.transport.AdvancePlayhead()

	select {
	case c.UpdateChan <- struct{}{}:
	default:
	}
}

func (c *Clock) stepInterval() time.Duration {
	return time.Duration(c.transport.StepDuration() * float64(time.Second))
}
