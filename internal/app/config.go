package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/aecgrid/internal/debug"
	"github.com/vk/aecgrid/internal/descriptor"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModulesPath string // module.hcl files

	LogFormat string
	LogLevel  string
	Target    descriptor.Target
}

// NewConfig fills defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if strings.TrimSpace(cfg.ModulesPath) == "" {
		return nil, errors.New("ModulesPath is a required configuration field and cannot be empty")
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := debug.ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	cfg.Target = cfg.Target.WithDefaults()
	if err := cfg.Target.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
