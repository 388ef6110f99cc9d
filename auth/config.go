package auth

import (
	"fmt"

	"github.com/kbukum/authapi/auth/jwt"
	"github.com/kbukum/authapi/auth/password"
)

// Config holds all authentication configuration.
type Config struct {
	// JWT configures the token service.
	JWT jwt.Config `yaml:"jwt" mapstructure:"jwt"`

	// Password configures password hashing.
	Password password.Config `yaml:"password" mapstructure:"password"`
}

// ApplyDefaults sets sensible defaults for both sub-configurations.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
}

// Validate checks both sub-configurations.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	return nil
}

// Describe returns a human-readable one-liner for the startup log.
// Example: "JWT(HS256) TTL=1h0m0s password=bcrypt"
func (c *Config) Describe() string {
	return fmt.Sprintf("JWT(%s) TTL=%s password=%s", c.JWT.Method, c.JWT.AccessTokenTTL, c.Password.Algorithm)
}
