package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// LoggingConfig controls the global log verbosity.
type LoggingConfig struct {
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks that the level is a known zerolog level.
func (c LoggingConfig) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logging level %q: %w", c.Level, err)
	}
	return nil
}

// Apply sets the global log level.
func (c LoggingConfig) Apply() {
	lvl, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return
	}
	zerolog.SetGlobalLevel(lvl)
}
