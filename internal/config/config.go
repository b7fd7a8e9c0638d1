// Package config loads the optional YAML configuration file. Every field has
// a default matching the built-in behavior, so running without any config
// file is the normal case.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable knobs of the dashboard.
type Config struct {
	// MaxLogLines caps the in-memory log buffer.
	MaxLogLines int `yaml:"max_log_lines"`

	// StatsWindow is the rolling-window capacity of the CPU/memory charts,
	// in samples (roughly seconds).
	StatsWindow int `yaml:"stats_window"`

	// LogTailLines is how much history a log stream starts with.
	LogTailLines int `yaml:"log_tail_lines"`

	// Debug enables the debug log file.
	Debug bool `yaml:"debug"`

	// LogFile overrides where the debug log is written.
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxLogLines:  1000,
		StatsWindow:  60,
		LogTailLines: 2000,
	}
}

// DefaultPath returns the conventional config location, or "" when the user
// config directory cannot be resolved.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tugboat", "config.yaml")
}

// Load reads the config at path. An empty path means the default location,
// where a missing or unreadable file silently falls back to defaults; an
// explicitly given path that cannot be read or parsed is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if !explicit {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg.normalized(), nil
}

// normalized replaces out-of-range values with their defaults.
func (c Config) normalized() Config {
	def := Default()
	if c.MaxLogLines <= 0 {
		c.MaxLogLines = def.MaxLogLines
	}
	if c.StatsWindow <= 0 {
		c.StatsWindow = def.StatsWindow
	}
	if c.LogTailLines <= 0 {
		c.LogTailLines = def.LogTailLines
	}
	return c
}
