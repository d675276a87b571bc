package sequencer

import (
	"os"
	"path/filepath"
	"testing"

	"step-synth/audio"
)

func TestSlotRoundTrip(t *testing.T) {
	seq := NewSequence()
	ev := NoteEvent{Pitch: 60, Duration: 0.25, Synth: audio.DefaultParams()}

	seq.SetSlot(2, 7, []NoteEvent{ev})
	got := seq.At(2, 7)
	if len(got) != 1 || got[0] != ev {
		t.Fatalf("At(2,7) = %+v, want the stored event", got)
	}

	// At returns a copy; mutating it must not touch the store
	got[0].Pitch = 99
	if seq.At(2, 7)[0].Pitch != 60 {
		t.Error("mutating the returned slice changed the store")
	}

	seq.ClearSlot(2, 7)
	if seq.HasNotes(2, 7) {
		t.Error("slot still has notes after ClearSlot")
	}
}

func TestOutOfBoundsAccessIsNoop(t *testing.T) {
	seq := NewSequence()
	ev := NoteEvent{Pitch: 60, Duration: 0.25}

	seq.SetSlot(-1, 0, []NoteEvent{ev})
	seq.SetSlot(NumTracks, 0, []NoteEvent{ev})
	seq.SetSlot(0, -1, []NoteEvent{ev})
	seq.SetSlot(0, NumSlots, []NoteEvent{ev})

	for tr := 0; tr < NumTracks; tr++ {
		for s := 0; s < NumSlots; s++ {
			if seq.HasNotes(tr, s) {
				t.Fatalf("out-of-bounds write landed at (%d,%d)", tr, s)
			}
		}
	}
	if seq.At(5, 99) != nil {
		t.Error("out-of-bounds read returned notes")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sequence.json")

	seq := NewSequence()
	params := audio.DefaultParams()
	params.Wave = audio.WaveSaw
	params.Attack = 0.33
	seq.SetSlot(0, 0, []NoteEvent{{Pitch: 60, Duration: 0.25, Synth: params}})
	seq.SetSlot(4, 15, []NoteEvent{
		{Pitch: 64, Duration: 0.5, Synth: params},
		{Pitch: 67, Duration: 0.5, Synth: params},
	})
	seq.ToggleMute(3)

	if err := seq.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := LoadSequence(path)
	got := loaded.At(0, 0)
	if len(got) != 1 || got[0].Pitch != 60 || got[0].Synth.Wave != audio.WaveSaw || got[0].Synth.Attack != 0.33 {
		t.Errorf("loaded (0,0) = %+v, want the saved event with its synth snapshot", got)
	}
	if len(loaded.At(4, 15)) != 2 {
		t.Error("loaded (4,15) lost its chord")
	}
	if !loaded.Muted(3) {
		t.Error("mute flag lost in round trip")
	}
}

func TestLoadMalformedYieldsEmptyGrid(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", "step-synth was here"},
		{"wrong type", `{"tracks": 42}`},
		{"too few tracks", `{"tracks":[{"slots":[]}]}`},
		{"too many tracks", `{"tracks":[{},{},{},{},{},{}]}`},
		{"short track", `{"tracks":[{"slots":[[],[]]},{"slots":[]},{"slots":[]},{"slots":[]},{"slots":[]}]}`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sequence.json")
			if err := os.WriteFile(path, []byte(c.data), 0644); err != nil {
				t.Fatal(err)
			}

			seq := LoadSequence(path)
			// always a fresh, fully empty 5x16 grid, never a partial repair
			for tr := 0; tr < NumTracks; tr++ {
				for s := 0; s < NumSlots; s++ {
					if seq.HasNotes(tr, s) {
						t.Fatalf("malformed load kept notes at (%d,%d)", tr, s)
					}
				}
				if seq.Muted(tr) {
					t.Fatalf("malformed load kept mute on track %d", tr)
				}
			}
		})
	}
}

func TestLoadMissingFileYieldsEmptyGrid(t *testing.T) {
	seq := LoadSequence(filepath.Join(t.TempDir(), "nope.json"))
	if seq == nil {
		t.Fatal("nil sequence for missing file")
	}
	if seq.HasNotes(0, 0) {
		t.Error("missing file produced notes")
	}
}

func TestDeleteSelectedRejectedWhilePlaying(t *testing.T) {
	seq := NewSequence()
	sel := NewSelection()
	tr := NewTransport()

	ev := NoteEvent{Pitch: 60, Duration: 0.25}
	seq.SetSlot(0, 0, []NoteEvent{ev})
	seq.SetSlot(0, 1, []NoteEvent{ev})

	sel.SetMultiSelect(true)
	sel.Select(1) // slots {0,1}

	tr.SetPlaying(true)
	if seq.DeleteSelected(sel, tr) {
		t.Error("delete accepted while playing")
	}
	if !seq.HasNotes(0, 0) || !seq.HasNotes(0, 1) {
		t.Error("rejected delete still modified the track")
	}

	tr.SetPlaying(false)
	if !seq.DeleteSelected(sel, tr) {
		t.Error("delete rejected while stopped")
	}
	if seq.HasNotes(0, 0) || seq.HasNotes(0, 1) {
		t.Error("delete left notes in selected slots")
	}
}
