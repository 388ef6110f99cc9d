package encryption

import (
	"errors"
	"fmt"
)

// Encryptor seals and opens byte slices.
type Encryptor interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// Algorithm represents supported encryption algorithms.
type Algorithm string

const (
	// AlgorithmAESGCM is AES-256-GCM (default, widely supported).
	AlgorithmAESGCM Algorithm = "aes-256-gcm"

	// AlgorithmChaCha20 is ChaCha20-Poly1305 (fast on CPUs without AES-NI).
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

// Config configures at-rest encryption of the credential document.
type Config struct {
	// Enabled turns encryption on. The key is required when enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Key is the secret the cipher key is derived from.
	Key string `yaml:"key" mapstructure:"key"`

	// Algorithm selects the cipher (default: aes-256-gcm).
	Algorithm Algorithm `yaml:"algorithm" mapstructure:"algorithm"`
}

// ApplyDefaults sets the default algorithm.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmAESGCM
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Key == "" {
		return errors.New("key is required when encryption is enabled")
	}
	switch c.Algorithm {
	case AlgorithmAESGCM, AlgorithmChaCha20:
		return nil
	default:
		return fmt.Errorf("unsupported algorithm: %s", c.Algorithm)
	}
}

// Option configures the encryption service.
type Option func(*options)

type options struct {
	algorithm Algorithm
}

// WithAlgorithm selects the encryption algorithm (default: AES-256-GCM).
func WithAlgorithm(alg Algorithm) Option {
	return func(o *options) { o.algorithm = alg }
}

// New creates an Encryptor with the given key and options.
func New(key string, opts ...Option) (Encryptor, error) {
	o := &options{algorithm: AlgorithmAESGCM}
	for _, opt := range opts {
		opt(o)
	}

	switch o.algorithm {
	case AlgorithmAESGCM:
		return newAESGCM(key)
	case AlgorithmChaCha20:
		return newChaCha20(key)
	default:
		return nil, fmt.Errorf("encryption: unsupported algorithm %q", o.algorithm)
	}
}

// FromConfig returns an Encryptor for cfg, or nil when encryption is disabled.
func FromConfig(cfg Config) (Encryptor, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("encryption: %w", err)
	}
	if !cfg.Enabled {
		return nil, nil
	}
	return New(cfg.Key, WithAlgorithm(cfg.Algorithm))
}
