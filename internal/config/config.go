// Package config loads optional TOML defaults for the archiver. Flags always
// win over the file; the file wins over built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Error definitions for the config package
var (
	// ErrInvalidConfig is returned when the config file cannot be parsed
	// or contains unknown keys.
	ErrInvalidConfig = errors.New("config: invalid configuration file")
)

// Config holds the file-settable defaults.
type Config struct {
	// Force skips the overwrite confirmation, as if -f had been given.
	Force bool `toml:"force"`

	// NoPreservePerms re-applies archived permissions to directories that
	// already exist at the extraction target.
	NoPreservePerms bool `toml:"no_preserve_perms"`

	// LogLevel is the minimum log level name: debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogDir, when set, receives one JSON log file per run.
	LogDir string `toml:"log_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{LogLevel: "info"}
}

// Load reads the config file at path on top of the built-in defaults.
// An empty path returns the defaults untouched.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := Parse(content, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML content into cfg. Unknown keys are rejected so a typo
// in the file does not silently fall back to a default.
func Parse(content []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
