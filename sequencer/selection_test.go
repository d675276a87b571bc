package sequencer

import (
	"reflect"
	"testing"
)

func TestRangeSelection(t *testing.T) {
	sel := NewSelection()
	sel.Select(3)

	// enabling captures slot 3 as the anchor
	sel.SetMultiSelect(true)
	if got := sel.Anchor(); got != 3 {
		t.Fatalf("anchor = %d, want 3", got)
	}

	sel.Select(7)
	if got, want := sel.Slots(), []int{3, 4, 5, 6, 7}; !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}

	// selecting below the anchor flips the range
	sel.Select(1)
	if got, want := sel.Slots(), []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}

	// disabling collapses to the first element
	sel.SetMultiSelect(false)
	if got, want := sel.Slots(), []int{1}; !reflect.DeepEqual(got, want) {
		t.Errorf("slots after collapse = %v, want %v", got, want)
	}
}

func TestMultiSelectIdempotentToggle(t *testing.T) {
	sel := NewSelection()
	sel.Select(5)
	sel.SetMultiSelect(true)
	sel.Select(8)

	// setting the same state again must not reset the anchor or selection
	sel.SetMultiSelect(true)
	if got := sel.Anchor(); got != 5 {
		t.Errorf("anchor = %d after redundant enable, want 5", got)
	}
	if got := len(sel.Slots()); got != 4 {
		t.Errorf("selection length = %d after redundant enable, want 4", got)
	}
}

func TestSingleSelection(t *testing.T) {
	sel := NewSelection()
	sel.Select(9)
	if got, want := sel.Slots(), []int{9}; !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}
	if got := sel.First(); got != 9 {
		t.Errorf("first = %d, want 9", got)
	}
}

func TestSelectionClamps(t *testing.T) {
	sel := NewSelection()
	sel.Select(99)
	if got := sel.First(); got != NumSlots-1 {
		t.Errorf("first = %d, want clamp to %d", got, NumSlots-1)
	}
	sel.Select(-5)
	if got := sel.First(); got != 0 {
		t.Errorf("first = %d, want clamp to 0", got)
	}

	sel.SetTrack(17)
	if got := sel.ActiveTrack(); got != NumTracks-1 {
		t.Errorf("track = %d, want clamp to %d", got, NumTracks-1)
	}
	sel.SetTrack(-2)
	if got := sel.ActiveTrack(); got != 0 {
		t.Errorf("track = %d, want clamp to 0", got)
	}
}
