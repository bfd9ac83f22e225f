package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arup-group/batsim/core/metrics"
	"github.com/arup-group/batsim/core/scenario"
	"github.com/arup-group/batsim/infra/mqtt"
)

// Config is the full run configuration: the scenario plus operational
// settings for logging, metrics and publishing.
type Config struct {
	Scenario scenario.Scenario `json:"scenario"`
	Logging  LoggingConfig     `json:"logging"`
	Metrics  metrics.Config    `json:"metrics"`
	Publish  mqtt.Config       `json:"publish"`
	// Workers bounds the optimisation pool; 0 means one per CPU.
	Workers int `json:"workers"`
}

// Default returns a configuration with the documented defaults and no
// scenario groups beyond the built-in singletons.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads a yaml or json configuration file, applies BATSIM_ environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("BATSIM_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "batsim_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	c.Scenario.SetDefaults()
	c.Logging.SetDefaults()
	c.Metrics.SetDefaults()
	c.Publish.SetDefaults()
}

// Validate checks the scenario and all operational settings.
func (c *Config) Validate() error {
	if err := c.Scenario.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Publish.Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}
