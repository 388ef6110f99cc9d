package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/authapi/encryption"
	"github.com/kbukum/authapi/resilience"
	"github.com/kbukum/authapi/storage"
)

// BreakerConfig configures the circuit breaker around backend calls.
type BreakerConfig struct {
	// Enabled turns the breaker on (default: true).
	Enabled *bool `yaml:"enabled" mapstructure:"enabled"`

	// MaxFailures is how many consecutive backend errors open the circuit
	// (default: 5).
	MaxFailures int `yaml:"max_failures" mapstructure:"max_failures"`

	// Timeout is how long the circuit stays open before a trial call
	// (default: 30s).
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// OnStateChange is called when the circuit opens, half-opens or closes.
	OnStateChange func(name string, from, to resilience.State) `yaml:"-" mapstructure:"-"`
}

// IsEnabled reports whether the breaker is on.
func (c BreakerConfig) IsEnabled() bool { return c.Enabled == nil || *c.Enabled }

// Config configures where the user document lives.
type Config struct {
	// Path is the object key of the document (default: db.json).
	Path string `yaml:"path" mapstructure:"path"`

	// Encryption seals the document at rest.
	Encryption encryption.Config `yaml:"encryption" mapstructure:"encryption"`

	// Breaker fails calls fast while the backend keeps erroring.
	Breaker BreakerConfig `yaml:"breaker" mapstructure:"breaker"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultDocumentPath
	}
	c.Encryption.ApplyDefaults()
	def := resilience.DefaultCircuitBreakerConfig("")
	if c.Breaker.MaxFailures <= 0 {
		c.Breaker.MaxFailures = def.MaxFailures
	}
	if c.Breaker.Timeout <= 0 {
		c.Breaker.Timeout = def.Timeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Encryption.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// Open builds a DocumentStore over backend according to cfg.
func Open(backend storage.Storage, cfg Config) (*DocumentStore, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	enc, err := encryption.FromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	opts := []Option{WithPath(cfg.Path), WithEncryptor(enc)}
	if cfg.Breaker.IsEnabled() {
		opts = append(opts, WithBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:          "credential-store",
			MaxFailures:   cfg.Breaker.MaxFailures,
			Timeout:       cfg.Breaker.Timeout,
			IsFailure:     backendFailure,
			OnStateChange: cfg.Breaker.OnStateChange,
		})))
	}
	return NewDocumentStore(backend, opts...), nil
}

// backendFailure counts backend errors against the breaker. A missing
// document means the backend answered.
func backendFailure(err error) bool {
	return err != nil && !errors.Is(err, storage.ErrNotFound)
}
