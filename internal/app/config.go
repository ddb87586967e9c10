package app

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ManifestPath points at an external HCL manifest. Empty means the
	// manifest embedded in the binary.
	ManifestPath string `env:"ENTITYFIX_MANIFEST"`
	// Root overrides the directory relative manifest paths resolve against.
	Root string `env:"ENTITYFIX_ROOT"`

	LogFormat string `env:"ENTITYFIX_LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"ENTITYFIX_LOG_LEVEL" envDefault:"info"`
}

// FromEnv returns a Config populated from ENTITYFIX_* environment
// variables. Flags layer on top of this, so flags win over the environment.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// NewConfig validates a Config and fills in defaults for unset fields.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	return &cfg, nil
}
