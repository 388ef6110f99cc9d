package ratelimit

import (
	"fmt"
	"time"
)

// Store backends selectable from configuration.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Default limits: 100 requests per 15 minutes.
const (
	DefaultLimit  = 100
	DefaultWindow = 15 * time.Minute
)

// Config configures the request limiter.
type Config struct {
	// Enabled controls whether the limiter middleware is installed.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Limit is the number of requests allowed per window (default: 100).
	Limit int `yaml:"limit" mapstructure:"limit"`

	// Window is the fixed window length (default: 15m).
	Window time.Duration `yaml:"window" mapstructure:"window"`

	// Store selects the counter backend: "memory" or "redis" (default: memory).
	Store string `yaml:"store" mapstructure:"store" validate:"oneof=memory redis"`

	// KeyPrefix namespaces counter keys (default: "ratelimit:").
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Limit == 0 {
		c.Limit = DefaultLimit
	}
	if c.Window == 0 {
		c.Window = DefaultWindow
	}
	if c.Store == "" {
		c.Store = StoreMemory
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "ratelimit:"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, c.Limit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, c.Window)
	}
	switch c.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("%w: unsupported store %q", ErrInvalidConfig, c.Store)
	}
	return nil
}
