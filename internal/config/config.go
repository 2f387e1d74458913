// Package config holds fubbertool's runtime configuration: where the store
// lives, how the Updater is throttled, and how logging behaves. Settings
// load from an optional YAML file and are then overridden by environment
// variables, matching the layering the teacher repository uses for its own
// Config.Load.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all fubbertool configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Updater UpdaterConfig `yaml:"updater"`
	Logging LoggingConfig `yaml:"logging"`

	// Dev enables strict tokenizer/extractor failure instead of silent
	// degradation (FUBBER_DEV).
	Dev bool `yaml:"dev"`
}

// UpdaterConfig controls the Updater's throttle and detection budget.
type UpdaterConfig struct {
	AutoUpdate       bool          `yaml:"auto_update"`
	Throttle         time.Duration `yaml:"throttle"`
	DetectTimeout    time.Duration `yaml:"detect_timeout"`
	RecentThreshold  time.Duration `yaml:"recent_threshold"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "fubbertool",
		Version: "1.0.0",
		Updater: UpdaterConfig{
			AutoUpdate:      true,
			Throttle:        60 * time.Second,
			DetectTimeout:   250 * time.Millisecond,
			RecentThreshold: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults if the
// file does not exist, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent directories
// as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies FUBBER_* environment variable overrides on top
// of whatever was loaded from the YAML file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FUBBER_AUTO_UPDATE"); v != "" {
		c.Updater.AutoUpdate = v != "false" && v != "0"
	}
	if v := os.Getenv("FUBBER_UPDATE_THROTTLE"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Updater.Throttle = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("FUBBER_DETECT_TIMEOUT"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.Updater.DetectTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("FUBBER_RECENT_THRESHOLD"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Updater.RecentThreshold = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("FUBBER_DEV"); v != "" {
		c.Dev = v != "false" && v != "0"
		if c.Dev {
			c.Logging.DebugMode = true
			c.Logging.Level = "debug"
		}
	}
}

// StoreDir returns the directory fubbertool stores its state in:
// $HOME/.local/fubbertool.
func StoreDir() (string, error) {
	home := os.Getenv("HOME")
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
	}
	return filepath.Join(home, ".local", "fubbertool"), nil
}

// StorePath returns the path to the SQLite database file.
func StorePath() (string, error) {
	dir, err := StoreDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "index.db"), nil
}
