package tui

import (
	"testing"

	"step-synth/audio"
	"step-synth/midi"
	"step-synth/preset"
	"step-synth/sequencer"
	"step-synth/theme"
)

func newTestModel(t *testing.T, store *preset.Store, lastPreset string) Model {
	t.Helper()
	engine, err := audio.NewEngine(1000)
	if err != nil {
		t.Fatal(err)
	}
	live := audio.NewLiveParams()
	seq := sequencer.NewSequence()
	sel := sequencer.NewSelection()
	transport := sequencer.NewTransport()
	voices := audio.NewManager(engine)
	clock := sequencer.NewClock(seq, transport, voices)
	rec := sequencer.NewRecorder(seq, sel, transport, voices, live)
	return NewModel(engine, live, seq, sel, transport, clock, rec, store,
		lastPreset, midi.NewManager(""), theme.Default())
}

func TestLoadNextPresetResumesFromRestoredName(t *testing.T) {
	store := preset.NewStore(t.TempDir())
	for _, name := range []string{"bell", "pad"} {
		if err := store.Save(name, audio.DefaultParams()); err != nil {
			t.Fatal(err)
		}
	}

	// the name restored from config must seed the cycle, not be ignored
	m := newTestModel(t, store, "bell")
	m.loadNextPreset()
	if m.lastPreset != "pad" {
		t.Errorf("next preset = %q, want %q", m.lastPreset, "pad")
	}
}

func TestLastPresetExposedForPersistence(t *testing.T) {
	store := preset.NewStore(t.TempDir())
	m := newTestModel(t, store, "warm")
	if got := m.LastPreset(); got != "warm" {
		t.Errorf("LastPreset() = %q, want %q", got, "warm")
	}
}
