package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected logging level 'info', got %q", cfg.Logging.Level)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if !cfg.IsProduction() {
			t.Error("expected IsProduction")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid staging", ServiceConfig{Name: "svc", Environment: "staging"}, false, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid"}, true, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Server        struct {
		Port int `yaml:"port" mapstructure:"port"`
	} `yaml:"server" mapstructure:"server"`
	Auth struct {
		JWT struct {
			Secret string `yaml:"secret" mapstructure:"secret"`
		} `yaml:"jwt" mapstructure:"jwt"`
	} `yaml:"auth" mapstructure:"auth"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := writeConfig(t, `
name: test-service
environment: staging
version: "1.0.0"
server:
  port: 5000
`)

	var cfg testConfig
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "test-service" {
		t.Errorf("expected name 'test-service', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("expected port 5000, got %d", cfg.Server.Port)
	}
}

func TestLoadConfigNestedEnv(t *testing.T) {
	path := writeConfig(t, "name: test-service\n")
	t.Setenv("AUTH_JWT_SECRET", "from-nested-env")

	var cfg testConfig
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Auth.JWT.Secret != "from-nested-env" {
		t.Errorf("expected secret from AUTH_JWT_SECRET, got %q", cfg.Auth.JWT.Secret)
	}
}

func TestLoadConfigEnvAliases(t *testing.T) {
	path := writeConfig(t, `
name: test-service
server:
  port: 5000
`)
	t.Setenv("JWT_SECRET", "from-alias")
	t.Setenv("PORT", "6000")

	var cfg testConfig
	err := LoadConfig("test-service", &cfg,
		WithConfigFile(path),
		WithEnvAliases(map[string]string{
			"JWT_SECRET": "auth.jwt.secret",
			"PORT":       "server.port",
		}),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Auth.JWT.Secret != "from-alias" {
		t.Errorf("expected secret from JWT_SECRET, got %q", cfg.Auth.JWT.Secret)
	}
	if cfg.Server.Port != 6000 {
		t.Errorf("expected port 6000 from PORT, got %d", cfg.Server.Port)
	}
}

func TestLoadConfigEnvAliasPrecedence(t *testing.T) {
	path := writeConfig(t, `
name: test-service
server:
  port: 5000
auth:
  jwt:
    secret: from-file
`)
	aliases := WithEnvAliases(map[string]string{
		"JWT_SECRET": "auth.jwt.secret",
		"PORT":       "server.port",
	})
	unset := func(t *testing.T, key string) {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	tests := []struct {
		name       string
		env        func(t *testing.T)
		wantSecret string
		wantPort   int
	}{
		{
			name: "unset aliases keep file values",
			env: func(t *testing.T) {
				unset(t, "AUTH_JWT_SECRET")
				unset(t, "JWT_SECRET")
				unset(t, "PORT")
			},
			wantSecret: "from-file",
			wantPort:   5000,
		},
		{
			name: "alias wins over nested variable",
			env: func(t *testing.T) {
				unset(t, "PORT")
				t.Setenv("AUTH_JWT_SECRET", "from-nested")
				t.Setenv("JWT_SECRET", "from-alias")
			},
			wantSecret: "from-alias",
			wantPort:   5000,
		},
		{
			name: "empty alias value still applies",
			env: func(t *testing.T) {
				unset(t, "AUTH_JWT_SECRET")
				t.Setenv("JWT_SECRET", "")
				t.Setenv("PORT", "7000")
			},
			wantSecret: "",
			wantPort:   7000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.env(t)
			var cfg testConfig
			if err := LoadConfig("test-service", &cfg, WithConfigFile(path), aliases); err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			if cfg.Auth.JWT.Secret != tt.wantSecret {
				t.Errorf("secret = %q, want %q", cfg.Auth.JWT.Secret, tt.wantSecret)
			}
			if cfg.Server.Port != tt.wantPort {
				t.Errorf("port = %d, want %d", cfg.Server.Port, tt.wantPort)
			}
		})
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("AUTHAPI_TEST_SECRET=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("AUTHAPI_TEST_SECRET") })

	var cfg testConfig
	err := LoadConfig("test-service", &cfg,
		WithConfigFile(writeConfig(t, "name: test-service\n")),
		WithEnvFile(envPath),
		WithEnvAliases(map[string]string{"AUTHAPI_TEST_SECRET": "auth.jwt.secret"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Auth.JWT.Secret != "from-dotenv" {
		t.Errorf("expected secret from .env, got %q", cfg.Auth.JWT.Secret)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	// With no config file found, LoadConfig should still succeed (just empty config)
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/authapi/config.yml": true,
		"./.env":                   true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("authapi", LoaderConfig{})
	if files.ConfigFile != "./cmd/authapi/config.yml" {
		t.Errorf("expected config file at ./cmd/authapi/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected env file at ./.env, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPaths(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{}}
	files := resolver.ResolveFiles("authapi", LoaderConfig{ConfigFile: "/etc/a.yml", EnvFile: "/etc/a.env"})
	if files.ConfigFile != "/etc/a.yml" || files.EnvFile != "/etc/a.env" {
		t.Errorf("explicit paths not kept: %+v", files)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
func (m *mockFS) Getwd() (string, error)    { return "/mock", nil }

func TestWithEnvAliasesMerges(t *testing.T) {
	var lc LoaderConfig
	WithEnvAliases(map[string]string{"PORT": "server.port"})(&lc)
	WithEnvAliases(map[string]string{"JWT_SECRET": "auth.jwt.secret"})(&lc)
	if len(lc.EnvAliases) != 2 {
		t.Errorf("expected 2 aliases, got %v", lc.EnvAliases)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	variants := generateEnvKeyVariants("AUTH_JWT_SECRET")
	want := map[string]bool{"auth_jwt_secret": false, "auth.jwt.secret": false, "auth.jwt_secret": false}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("missing variant %q in %v", k, variants)
		}
	}
}
