// Package config loads service configuration from YAML files, .env files and
// the process environment using Viper.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("authapi", &cfg,
//	    config.WithConfigFile(path),
//	    config.WithEnvAliases(map[string]string{"JWT_SECRET": "auth.jwt.secret"}),
//	)
//
// Environment variables are bound as nested-key variants, so AUTH_JWT_SECRET
// reaches auth.jwt.secret without an explicit alias.
package config
