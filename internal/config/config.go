// Package config loads runtime settings from TYBURN_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Norgate-AV/tyburn/internal/timeouts"
)

// Prefix is prepended to every environment variable name.
const Prefix = "TYBURN"

// Config holds all application configuration.
type Config struct {
	// Timeout bounds each driver operation.
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`

	// PollInterval is the delay between window lookups.
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"100ms"`

	// CloseTimeout bounds the wait for a closed window to go away.
	CloseTimeout time.Duration `envconfig:"CLOSE_TIMEOUT" default:"5s"`

	// Headless forces every operation to fail with ErrHeadless.
	Headless bool `envconfig:"HEADLESS" default:"false"`

	// LogDir overrides the log directory.
	LogDir string `envconfig:"LOG_DIR"`

	// Verbose enables debug output on the console.
	Verbose bool `envconfig:"VERBOSE" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}

	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Timeout:      timeouts.DefaultOperationTimeout,
		PollInterval: timeouts.StatePollingInterval,
		CloseTimeout: timeouts.CloseTimeout,
	}
}

// Validate rejects durations that would make every wait fail immediately.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid config: %s_TIMEOUT must be positive, got %s", Prefix, c.Timeout)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid config: %s_POLL_INTERVAL must be positive, got %s", Prefix, c.PollInterval)
	}

	if c.CloseTimeout <= 0 {
		return fmt.Errorf("invalid config: %s_CLOSE_TIMEOUT must be positive, got %s", Prefix, c.CloseTimeout)
	}

	return nil
}
