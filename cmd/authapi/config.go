package main

import (
	"fmt"

	"github.com/kbukum/authapi/auth"
	"github.com/kbukum/authapi/config"
	"github.com/kbukum/authapi/credential"
	"github.com/kbukum/authapi/observability"
	"github.com/kbukum/authapi/ratelimit"
	"github.com/kbukum/authapi/redis"
	"github.com/kbukum/authapi/server"
	"github.com/kbukum/authapi/storage"
	"github.com/kbukum/authapi/validation"
)

const serviceName = "authapi"

// envAliases keeps the plain variable names used by existing deployments.
var envAliases = map[string]string{
	"JWT_SECRET": "auth.jwt.secret",
	"PORT":       "server.port",
}

// AppConfig is the full service configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Store         credential.Config    `yaml:"store" mapstructure:"store"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	RateLimit     ratelimit.Config     `yaml:"rate_limit" mapstructure:"rate_limit"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies defaults to every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Store.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.RateLimit.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate runs the struct tag checks, then every section's own rules.
func (c *AppConfig) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("config: %s", validation.Describe(err))
	}
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	if c.needsRedis() && !c.Redis.Enabled {
		return fmt.Errorf("config: redis.enabled is required by storage.provider=%s rate_limit.store=%s",
			c.Storage.Provider, c.RateLimit.Store)
	}
	return nil
}

func (c *AppConfig) needsRedis() bool {
	return c.Storage.Provider == storage.ProviderRedis ||
		(c.RateLimit.Enabled && c.RateLimit.Store == ratelimit.StoreRedis)
}

// loadConfig reads config.yml, .env and the environment into an AppConfig.
// Empty paths fall back to the standard search locations.
func loadConfig(configFile, envFile string) (*AppConfig, error) {
	cfg := &AppConfig{}
	opts := []config.LoaderOption{config.WithEnvAliases(envAliases)}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
