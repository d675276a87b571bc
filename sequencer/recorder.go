package sequencer

import (
	"step-synth/audio"
	"step-synth/debug"
)

// Recorder bridges live-played notes into sequence writes. While the
// transport is armed, every captured note overwrites the first selected slot
// of the active track and steps the selection forward, so the performer can
// enter a pattern one keypress at a time.
type Recorder struct {
	seq       *Sequence
	sel       *Selection
	transport *Transport
	trig      NoteTrigger
	live      *audio.LiveParams
}

// NewRecorder wires the recorder into the store, selection, and synth
func NewRecorder(seq *Sequence, sel *Selection, transport *Transport, trig NoteTrigger, live *audio.LiveParams) *Recorder {
	return &Recorder{
		seq:       seq,
		sel:       sel,
		transport: transport,
		trig:      trig,
		live:      live,
	}
}

// OnLiveNote is the callback target for the performance surface (keyboard
// row, MIDI input). The note always sounds; it is only written to the grid
// while recording is armed.
func (r *Recorder) OnLiveNote(pitch int) {
	dur := r.resolveDuration(0)
	r.trig.Trigger(pitch, dur, r.live.Get())
	r.CaptureNote(pitch, 0)
}

// CaptureNote writes one note into the grid. explicitDuration <= 0 means
// "unspecified"; the duration then falls back to the transport's step length,
// then to the live default. No-op unless recording is armed.
func (r *Recorder) CaptureNote(pitch int, explicitDuration float64) {
	if !r.transport.Recording() {
		return
	}

	ev := NoteEvent{
		Pitch:    pitch,
		Duration: r.resolveDuration(explicitDuration),
		Synth:    r.live.Get(), // snapshot: later knob moves don't touch this note
	}

	track := r.sel.ActiveTrack()
	slot := r.sel.First()
	r.seq.SetSlot(track, slot, []NoteEvent{ev})

	// recording always moves forward one step per captured note
	r.sel.SetMultiSelect(false)
	r.sel.Select((slot + 1) % NumSlots)

	debug.Log("record", "captured pitch=%d dur=%.3f at track=%d slot=%d", pitch, ev.Duration, track, slot)
}

func (r *Recorder) resolveDuration(explicit float64) float64 {
	dur := explicit
	if dur <= 0 {
		dur = r.transport.StepDuration()
	}
	if dur <= 0 {
		dur = r.live.NoteDuration()
	}
	if dur < minNoteDuration {
		dur = minNoteDuration
	}
	return dur
}

// minNoteDuration floors captured note lengths away from zero
const minNoteDuration = 0.01
