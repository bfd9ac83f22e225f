package config

import "fmt"

var logLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// LoggingConfig defines the process log level.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level is known.
func (c LoggingConfig) Validate() error {
	if !logLevels[c.Level] {
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	return nil
}
