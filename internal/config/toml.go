// Package config loads, validates and saves user settings.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/typesprint/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test TestConfig `toml:"test"`
}

// TestConfig maps test settings. Nil fields keep their defaults.
type TestConfig struct {
	Mode      *string `toml:"mode"`
	Duration  *int    `toml:"duration"`
	ShowTimer *bool   `toml:"show-timer"`
	Theme     *string `toml:"theme"`
	Font      *string `toml:"font"`
	Sound     *bool   `toml:"sound"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Apply overlays the values set in the file onto s.
func (c TestConfig) Apply(s model.Settings) model.Settings {
	if c.Mode != nil {
		s.TestMode = model.TestMode(*c.Mode)
	}
	if c.Duration != nil {
		s.TestDuration = *c.Duration
	}
	if c.ShowTimer != nil {
		s.ShowTimer = *c.ShowTimer
	}
	if c.Theme != nil {
		s.Theme = *c.Theme
	}
	if c.Font != nil {
		s.FontStyle = *c.Font
	}
	if c.Sound != nil {
		s.SoundEnabled = *c.Sound
	}
	return s
}

// FromSettings returns a config section with every field set from s.
func FromSettings(s model.Settings) TestConfig {
	mode := string(s.TestMode)
	return TestConfig{
		Mode:      &mode,
		Duration:  &s.TestDuration,
		ShowTimer: &s.ShowTimer,
		Theme:     &s.Theme,
		Font:      &s.FontStyle,
		Sound:     &s.SoundEnabled,
	}
}

// SaveSettings writes s to the config file at path, replacing the [test]
// section. The file is written atomically.
func SaveSettings(path string, s model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := toml.NewEncoder(writer).Encode(FileConfig{Test: FromSettings(s)}); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// DefaultTemplate is written by `typesprint config` when no file exists.
func DefaultTemplate() string {
	d := model.DefaultSettings()
	return fmt.Sprintf(`# typesprint configuration
# Uncomment a value to enable it. CLI flags override config values.

[test]
# mode = %q          # words, quotes or zen
# duration = %d          # 15, 30, 60 or 120 seconds
# show-timer = %t      # Show the countdown
# theme = %q          # dark, light or neon
# font = %q            # sans, mono or handwriting
# sound = %t          # Keystroke sounds
`,
		d.TestMode,
		d.TestDuration,
		d.ShowTimer,
		d.Theme,
		d.FontStyle,
		d.SoundEnabled,
	)
}
