package sequencer

import (
	"sync"

	"step-synth/audio"
	"step-synth/debug"
)

const (
	NumTracks = 5
	NumSlots  = 16
)

// NoteEvent is one recorded (or live-played) note. The synth params are a
// by-value snapshot taken at capture time; the event is never mutated after
// creation, so later edits to the live params leave recorded notes untouched.
type NoteEvent struct {
	Pitch    int               `json:"pitch"`
	Duration float64           `json:"duration"` // seconds, > 0
	Synth    audio.SynthParams `json:"synth"`
}

// Slot is the list of notes sounding together at one step position
type Slot []NoteEvent

// Track is one row of the grid plus its mute flag
type Track struct {
	Slots [NumSlots]Slot `json:"slots"`
	Muted bool           `json:"muted"`
}

// Sequence is the 5x16 grid. The shape is invariant: anything malformed
// loaded from disk is replaced wholesale with a fresh empty grid, never
// partially repaired.
//
// Writers are the recorder and the editor; the clock reads concurrently, so
// all access goes through the mutex.
type Sequence struct {
	mu     sync.RWMutex
	tracks [NumTracks]Track
}

// NewSequence returns an empty 5x16 grid
func NewSequence() *Sequence {
	return &Sequence{}
}

// At returns a copy of the slot's note list
func (s *Sequence) At(track, slot int) []NoteEvent {
	if !inBounds(track, slot) {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.tracks[track].Slots[slot]
	if len(src) == 0 {
		return nil
	}
	out := make([]NoteEvent, len(src))
	copy(out, src)
	return out
}

// SetSlot overwrites the slot's note list
func (s *Sequence) SetSlot(track, slot int, events []NoteEvent) {
	if !inBounds(track, slot) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks[track].Slots[slot] = events
}

// ClearSlot empties the slot
func (s *Sequence) ClearSlot(track, slot int) {
	s.SetSlot(track, slot, nil)
}

// HasNotes reports whether the slot holds any events
func (s *Sequence) HasNotes(track, slot int) bool {
	if !inBounds(track, slot) {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracks[track].Slots[slot]) > 0
}

// ToggleMute flips a track's mute flag
func (s *Sequence) ToggleMute(track int) {
	if track < 0 || track >= NumTracks {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks[track].Muted = !s.tracks[track].Muted
}

// Muted reports whether a track is muted
func (s *Sequence) Muted(track int) bool {
	if track < 0 || track >= NumTracks {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracks[track].Muted
}

// DeleteSelected clears every selected slot of the active track. It is
// rejected while the clock is playing, since the clock is reading the same
// track. The caller turns multi-select off afterwards by convention.
func (s *Sequence) DeleteSelected(sel *Selection, tr *Transport) bool {
	if tr.Playing() {
		debug.Log("edit", "deleteSelected rejected: transport playing")
		return false
	}
	track := sel.ActiveTrack()
	slots := sel.Slots()

	s.mu.Lock()
	for _, slot := range slots {
		if slot >= 0 && slot < NumSlots {
			s.tracks[track].Slots[slot] = nil
		}
	}
	s.mu.Unlock()

	debug.Log("edit", "deleted %d slot(s) on track %d", len(slots), track)
	return true
}

func inBounds(track, slot int) bool {
	return track >= 0 && track < NumTracks && slot >= 0 && slot < NumSlots
}
