package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// MIDIConfig selects the live-input keyboard
type MIDIConfig struct {
	PortName    string `json:"portName,omitempty"`
	AutoConnect bool   `json:"autoConnect"`
}

// UIConfig stores surface preferences
type UIConfig struct {
	LastStepDuration float64 `json:"lastStepDuration,omitempty"`
	LastMasterGain   float64 `json:"lastMasterGain,omitempty"`
	LastPreset       string  `json:"lastPreset,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	MIDI  MIDIConfig `json:"midi,omitempty"`
	UI    UIConfig   `json:"ui,omitempty"`
	Debug bool       `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MIDI: MIDIConfig{AutoConnect: true},
		UI: UIConfig{
			LastStepDuration: 0.125,
			LastMasterGain:   0.8,
		},
	}
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "step-synth"), nil
}

// Path returns the full path to config.json
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
