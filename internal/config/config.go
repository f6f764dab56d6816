// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete worldsmith configuration.
type Config struct {
	// Prompt is the interactive prompt string
	Prompt string `toml:"prompt"`

	// Store configuration
	Store StoreConfig `toml:"store"`

	// World model configuration
	World WorldConfig `toml:"world"`

	// History configuration
	History HistoryConfig `toml:"history"`

	// Log configuration
	Log LogConfig `toml:"log"`
}

// StoreConfig contains graph store configuration.
type StoreConfig struct {
	// Path is the SQLite database file (empty = ~/.worldsmith/world.db)
	Path string `toml:"path"`
}

// WorldConfig contains world model configuration.
type WorldConfig struct {
	// DataFile is an optional JSON world data file loaded at startup.
	// When set, the store is cleared and repopulated from it.
	DataFile string `toml:"data_file"`

	// DefaultDepth is the graph view depth when none is given
	DefaultDepth int `toml:"default_depth"`

	// MaxDepth is the hard clamp on graph view depth
	MaxDepth int `toml:"max_depth"`
}

// HistoryConfig contains readline history configuration.
type HistoryConfig struct {
	// File is the history file path (empty = ~/.worldsmith/history)
	File string `toml:"file"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// File is the log file path (empty = ~/.worldsmith/worldsmith.log).
	// The shell owns the terminal, so logs never go to stderr once the
	// prompt is up.
	File string `toml:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values. Path fields are
// left empty here and resolved against the config directory in Load, so
// a file that sets only some paths still gets the rest.
func Default() *Config {
	return &Config{
		Prompt: "worldsmith> ",
		World: WorldConfig{
			DefaultDepth: 3,
			MaxDepth:     5,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the worldsmith configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".worldsmith"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file, falling back to
// defaults when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file. A missing
// file is not an error; the defaults apply.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.SetDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults fills in any missing values, resolving empty paths against
// the config directory.
func (c *Config) SetDefaults() error {
	defaults := Default()

	if c.Prompt == "" {
		c.Prompt = defaults.Prompt
	}
	if c.World.DefaultDepth == 0 {
		c.World.DefaultDepth = defaults.World.DefaultDepth
	}
	if c.World.MaxDepth == 0 {
		c.World.MaxDepth = defaults.World.MaxDepth
	}

	if c.Store.Path == "" || c.History.File == "" || c.Log.File == "" {
		dir, err := ConfigDir()
		if err != nil {
			return err
		}
		if c.Store.Path == "" {
			c.Store.Path = filepath.Join(dir, "world.db")
		}
		if c.History.File == "" {
			c.History.File = filepath.Join(dir, "history")
		}
		if c.Log.File == "" {
			c.Log.File = filepath.Join(dir, "worldsmith.log")
		}
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	if c.World.DefaultDepth < 0 {
		return ValidationError{Field: "world.default_depth", Message: "must be non-negative"}
	}
	if c.World.MaxDepth < 1 {
		return ValidationError{
			Field:   "world.max_depth",
			Message: fmt.Sprintf("must be at least 1, got %d", c.World.MaxDepth),
		}
	}
	if c.World.DefaultDepth > c.World.MaxDepth {
		return ValidationError{
			Field:   "world.default_depth",
			Message: fmt.Sprintf("must not exceed max_depth %d, got %d", c.World.MaxDepth, c.World.DefaultDepth),
		}
	}
	if c.World.DataFile != "" {
		if _, err := os.Stat(c.World.DataFile); err != nil {
			return ValidationError{
				Field:   "world.data_file",
				Message: fmt.Sprintf("not readable: %v", err),
			}
		}
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - WORLDSMITH_PROMPT: overrides prompt
//   - WORLDSMITH_STORE: overrides store.path
//   - WORLDSMITH_DATA: overrides world.data_file
//   - WORLDSMITH_HISTORY: overrides history.file
//   - WORLDSMITH_LOG: overrides log.file
//   - WORLDSMITH_DEPTH: overrides world.default_depth
func (c *Config) ApplyEnvOverrides() {
	if prompt := os.Getenv("WORLDSMITH_PROMPT"); prompt != "" {
		c.Prompt = prompt
	}
	if path := os.Getenv("WORLDSMITH_STORE"); path != "" {
		c.Store.Path = path
	}
	if data := os.Getenv("WORLDSMITH_DATA"); data != "" {
		c.World.DataFile = data
	}
	if history := os.Getenv("WORLDSMITH_HISTORY"); history != "" {
		c.History.File = history
	}
	if logFile := os.Getenv("WORLDSMITH_LOG"); logFile != "" {
		c.Log.File = logFile
	}
	if depth := os.Getenv("WORLDSMITH_DEPTH"); depth != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(depth)); err == nil {
			c.World.DefaultDepth = n
		}
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to a TOML file with owner-only
// permissions.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# worldsmith configuration file")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
