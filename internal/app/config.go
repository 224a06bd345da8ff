package app

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultWorkerCount bounds parallel dataset loading and ExpandAll when no
// worker count is configured.
const DefaultWorkerCount = 4

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // .hcl file or directory, or .yaml/.yml file

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.WorkerCount < 0 {
		return nil, fmt.Errorf("invalid worker count %d", cfg.WorkerCount)
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	return &cfg, nil
}
