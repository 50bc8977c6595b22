// Package config loads mafcheck settings from a config file, environment
// variables, and defaults.
package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Default configuration values.
const (
	// DefaultParanoid controls whether reader warnings are fatal.
	DefaultParanoid = false

	// DefaultColor is the color policy for terminal output.
	DefaultColor = "auto"

	// DefaultLogLevel is the minimum slog severity.
	DefaultLogLevel = "info"
)

// Config holds all mafcheck settings.
type Config struct {
	// Paranoid treats reader warnings as errors.
	Paranoid bool `mapstructure:"paranoid"`

	// Color is one of "auto", "always", "never".
	Color string `mapstructure:"color"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `mapstructure:"log_level"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: invalid color policy %q (want auto, always, or never)", c.Color)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel translates the configured log level into a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: invalid log level %q", c.LogLevel)
	}
}
