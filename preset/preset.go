package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"step-synth/audio"
)

// Store persists named SynthParams records as JSON files. The synth core
// only ever sees SynthParams values; how they are stored is this package's
// business alone.
type Store struct {
	dir string
}

// DefaultDir returns ~/.config/step-synth/presets
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "step-synth", "presets"), nil
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes params under the given name
func (s *Store) Save(name string, p audio.SynthParams) error {
	name = sanitize(name)
	if name == "" {
		return fmt.Errorf("empty preset name")
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create preset dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	if err := os.WriteFile(s.path(name), data, 0644); err != nil {
		return fmt.Errorf("write preset: %w", err)
	}
	return nil
}

// Load reads the named preset
func (s *Store) Load(name string) (audio.SynthParams, error) {
	data, err := os.ReadFile(s.path(sanitize(name)))
	if err != nil {
		return audio.SynthParams{}, fmt.Errorf("read preset: %w", err)
	}
	var p audio.SynthParams
	if err := json.Unmarshal(data, &p); err != nil {
		return audio.SynthParams{}, fmt.Errorf("decode preset: %w", err)
	}
	return p.Clamped(), nil
}

// List returns the saved preset names, sorted
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the named preset
func (s *Store) Delete(name string) error {
	return os.Remove(s.path(sanitize(name)))
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// sanitize keeps preset names filesystem-safe
func sanitize(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "-")
	name = strings.ReplaceAll(name, "..", "")
	return name
}
