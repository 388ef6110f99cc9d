package server

import (
	"fmt"

	"github.com/kbukum/authapi/security"
	"github.com/kbukum/authapi/server/middleware"
)

// Config holds HTTP server configuration.
type Config struct {
	Host           string                         `yaml:"host" mapstructure:"host"`
	Port           int                            `yaml:"port" mapstructure:"port"`
	BasePath       string                         `yaml:"base_path" mapstructure:"base_path"`         // auth routes prefix
	ReadTimeout    int                            `yaml:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout   int                            `yaml:"write_timeout" mapstructure:"write_timeout"` // seconds
	IdleTimeout    int                            `yaml:"idle_timeout" mapstructure:"idle_timeout"`   // seconds
	MaxBodySize    string                         `yaml:"max_body_size" mapstructure:"max_body_size"` // e.g. "1MB"
	TrustedProxies []string                       `yaml:"trusted_proxies" mapstructure:"trusted_proxies"`
	CORS           middleware.CORSConfig          `yaml:"cors" mapstructure:"cors"`
	SecureHeaders  middleware.SecureHeadersConfig `yaml:"secure_headers" mapstructure:"secure_headers"`
	TLS            security.TLSConfig             `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 5000
	}
	if c.BasePath == "" {
		c.BasePath = "/api/auth"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	c.CORS.ApplyDefaults()
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.BasePath != "" && c.BasePath[0] != '/' {
		return fmt.Errorf("server.base_path must start with / (got: %s)", c.BasePath)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must be non-negative (got: %d)", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must be non-negative (got: %d)", c.WriteTimeout)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("server.idle_timeout must be non-negative (got: %d)", c.IdleTimeout)
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("server.tls: %w", err)
	}
	return nil
}
