package sequencer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"step-synth/debug"
)

// On-disk shape of the grid. Slices rather than arrays so a malformed file
// is detected instead of silently truncated or zero-padded.
type trackFile struct {
	Muted bool   `json:"muted"`
	Slots []Slot `json:"slots"`
}

type sequenceFile struct {
	Tracks []trackFile `json:"tracks"`
}

// SequencePath returns the default save location
func SequencePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "step-synth", "sequence.json"), nil
}

// Save writes the grid to path as JSON
func (s *Sequence) Save(path string) error {
	s.mu.RLock()
	file := sequenceFile{Tracks: make([]trackFile, NumTracks)}
	for i := 0; i < NumTracks; i++ {
		file.Tracks[i].Muted = s.tracks[i].Muted
		file.Tracks[i].Slots = make([]Slot, NumSlots)
		for j := 0; j < NumSlots; j++ {
			file.Tracks[i].Slots[j] = append(Slot(nil), s.tracks[i].Slots[j]...)
		}
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sequence: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write sequence: %w", err)
	}
	return nil
}

// LoadSequence reads a grid from path. Anything that does not decode to an
// exact 5x16 shape (wrong track count, wrong slot count, not JSON at all)
// yields a fresh empty grid instead. The grid is never partially repaired.
func LoadSequence(path string) *Sequence {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			debug.Log("save", "read %s: %v", path, err)
		}
		return NewSequence()
	}

	var file sequenceFile
	if err := json.Unmarshal(data, &file); err != nil {
		debug.Log("save", "malformed sequence file, starting empty: %v", err)
		return NewSequence()
	}
	if len(file.Tracks) != NumTracks {
		debug.Log("save", "sequence has %d tracks, want %d; starting empty", len(file.Tracks), NumTracks)
		return NewSequence()
	}
	for i := range file.Tracks {
		if len(file.Tracks[i].Slots) != NumSlots {
			debug.Log("save", "track %d has %d slots, want %d; starting empty", i, len(file.Tracks[i].Slots), NumSlots)
			return NewSequence()
		}
	}

	s := NewSequence()
	for i := 0; i < NumTracks; i++ {
		s.tracks[i].Muted = file.Tracks[i].Muted
		for j := 0; j < NumSlots; j++ {
			if len(file.Tracks[i].Slots[j]) > 0 {
				s.tracks[i].Slots[j] = file.Tracks[i].Slots[j]
			}
		}
	}
	return s
}
