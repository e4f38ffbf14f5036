// Package config loads notequery settings from config.toml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// HomeEnv overrides the default home directory (~/.notequery).
const HomeEnv = "NOTEQUERY_HOME"

// Config represents the application configuration.
type Config struct {
	Search SearchConfig `toml:"search"`
	Log    LogConfig    `toml:"log"`
	Data   DataConfig   `toml:"data"`

	// HomeDir is the directory config.toml was looked up in.
	HomeDir string `toml:"-"`
}

type SearchConfig struct {
	Timezone string `toml:"timezone"` // IANA name, "Local" or "UTC"
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn or error
}

type DataConfig struct {
	Dir string `toml:"dir"` // defaults to HomeDir
}

// NewDefaultConfig returns the configuration used when no file exists.
func NewDefaultConfig(homeDir string) *Config {
	return &Config{
		Search:  SearchConfig{Timezone: "Local"},
		Log:     LogConfig{Level: "info"},
		HomeDir: homeDir,
	}
}

// DefaultHome resolves the home directory: $NOTEQUERY_HOME if set,
// otherwise ~/.notequery.
func DefaultHome() (string, error) {
	if h := os.Getenv(HomeEnv); h != "" {
		return h, nil
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(h, ".notequery"), nil
}

// Load reads homeDir/config.toml. A missing file yields the defaults.
func Load(homeDir string) (*Config, error) {
	cfg := NewDefaultConfig(homeDir)
	path := cfg.Path()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the location of config.toml.
func (c *Config) Path() string {
	return filepath.Join(c.HomeDir, "config.toml")
}

// DataDir returns the directory holding the saved-search database.
func (c *Config) DataDir() string {
	if c.Data.Dir != "" {
		return c.Data.Dir
	}
	return c.HomeDir
}

// DatabasePath returns the path of the SQLite database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir(), "notequery.db")
}

// Validate checks values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// Location returns the time zone used for relative dates.
func (c *Config) Location() (*time.Location, error) {
	switch strings.TrimSpace(c.Search.Timezone) {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Search.Timezone)
	if err != nil {
		return nil, fmt.Errorf("search.timezone %q: %w", c.Search.Timezone, err)
	}
	return loc, nil
}

// LogLevel maps log.level to a slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level %q: must be debug, info, warn or error", c.Log.Level)
	}
}
