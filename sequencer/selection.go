package sequencer

import "sync"

// Selection tracks which track and slot(s) the performer is working on.
// Multi-select is anchor-based: with it enabled, selecting slot i replaces
// the selection with the inclusive range between the anchor and i.
type Selection struct {
	mu     sync.Mutex
	track  int
	slots  []int // ascending, never empty
	anchor int
	multi  bool
}

// NewSelection starts on track 0, slot 0
func NewSelection() *Selection {
	return &Selection{slots: []int{0}}
}

// ActiveTrack returns the current track index
func (s *Selection) ActiveTrack() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track
}

// SetTrack switches the active track (clamped to the grid)
func (s *Selection) SetTrack(track int) {
	if track < 0 {
		track = 0
	}
	if track >= NumTracks {
		track = NumTracks - 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track = track
}

// Slots returns a copy of the selected slot indices, ascending
func (s *Selection) Slots() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.slots))
	copy(out, s.slots)
	return out
}

// First returns the first selected slot
func (s *Selection) First() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[0]
}

// MultiSelect reports whether range selection is enabled
func (s *Selection) MultiSelect() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.multi
}

// SetMultiSelect toggles range selection. Enabling captures the first
// currently selected slot as the anchor; disabling collapses the selection
// to its first element.
func (s *Selection) SetMultiSelect(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on == s.multi {
		return
	}
	s.multi = on
	if on {
		s.anchor = s.slots[0]
	} else {
		s.slots = []int{s.slots[0]}
	}
}

// Anchor returns the range anchor slot
func (s *Selection) Anchor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anchor
}

// Select sets the current slot. With multi-select on, the selection becomes
// the inclusive range between the anchor and slot; otherwise it is just slot.
func (s *Selection) Select(slot int) {
	if slot < 0 {
		slot = 0
	}
	if slot >= NumSlots {
		slot = NumSlots - 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.multi {
		s.slots = []int{slot}
		return
	}
	lo, hi := s.anchor, slot
	if lo > hi {
		lo, hi = hi, lo
	}
	s.slots = s.slots[:0]
	for i := lo; i <= hi; i++ {
		s.slots = append(s.slots, i)
	}
}
