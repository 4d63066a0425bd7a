// Package app assembles the console, configuration and presentation
// into a runnable emulator.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the persisted application settings.
type Config struct {
	Window WindowConfig `json:"window"`
	Video  VideoConfig  `json:"video"`
	Audio  AudioConfig  `json:"audio"`
	Input  InputConfig  `json:"input"`
}

// WindowConfig sizes the host window.
type WindowConfig struct {
	Scale      int  `json:"scale"` // raster multiplier
	Fullscreen bool `json:"fullscreen"`
}

// VideoConfig selects the presentation backend.
type VideoConfig struct {
	Backend string `json:"backend"` // "ebitengine", "terminal", "headless"
	VSync   bool   `json:"vsync"`
}

// AudioConfig parameterizes sample output.
type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sample_rate"`
	BufferSize int     `json:"buffer_size"` // host callback size in samples
	Volume     float64 `json:"volume"`
	LatencyMS  int     `json:"latency_ms"`
}

// KeyBindings names the host keys for one controller, in shift order.
type KeyBindings struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Select string `json:"select"`
	Start  string `json:"start"`
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
}

// InputConfig binds keys for both controller ports.
type InputConfig struct {
	Player1 KeyBindings `json:"player1"`
	Player2 KeyBindings `json:"player2"`
}

// DefaultConfig returns the stock settings.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{Scale: 2},
		Video:  VideoConfig{Backend: "ebitengine", VSync: true},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			BufferSize: 441,
			Volume:     0.8,
			LatencyMS:  40,
		},
		Input: InputConfig{
			Player1: KeyBindings{
				A: "Z", B: "X", Select: "RightShift", Start: "Enter",
				Up: "Up", Down: "Down", Left: "Left", Right: "Right",
			},
			Player2: KeyBindings{
				A: "N", B: "M", Select: "Comma", Start: "Period",
				Up: "I", Down: "K", Left: "J", Right: "L",
			},
		},
	}
}

// DefaultConfigPath returns the per-user config location.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "oxidenes.json"
	}
	return filepath.Join(dir, "oxidenes", "config.json")
}

// LoadConfig reads settings from path, falling back to defaults when
// the file does not exist yet.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the settings to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) validate() error {
	if c.Window.Scale < 1 || c.Window.Scale > 8 {
		return fmt.Errorf("window scale %d out of range", c.Window.Scale)
	}
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return fmt.Errorf("sample rate %d out of range", c.Audio.SampleRate)
	}
	if c.Audio.BufferSize < 64 {
		return fmt.Errorf("audio buffer %d too small", c.Audio.BufferSize)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("volume %v out of range", c.Audio.Volume)
	}
	return nil
}
