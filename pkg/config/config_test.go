package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medadhere/console/pkg/observability"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, DevSecretFallback, cfg.Auth.Secret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, EnvDevelopment, cfg.Auth.Environment)
	assert.Equal(t, "database", cfg.Storage.DataDir)
	assert.True(t, cfg.Storage.Watch)
	assert.Equal(t, observability.InfoLevel, cfg.Observability.LogLevel)
	assert.True(t, cfg.UsingDevSecret())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MEDADHERE_PORT", "3000")
	t.Setenv("MEDADHERE_AUTH_SECRET", "a-real-secret")
	t.Setenv("MEDADHERE_TOKEN_TTL", "1h")
	t.Setenv("MEDADHERE_ENV", "production")
	t.Setenv("MEDADHERE_DATA_DIR", "/var/lib/medadhere")
	t.Setenv("MEDADHERE_DATA_WATCH", "false")
	t.Setenv("MEDADHERE_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "a-real-secret", cfg.Auth.Secret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "/var/lib/medadhere", cfg.Storage.DataDir)
	assert.False(t, cfg.Storage.Watch)
	assert.Equal(t, observability.DebugLevel, cfg.Observability.LogLevel)
	assert.False(t, cfg.UsingDevSecret())
	assert.True(t, cfg.IsProduction())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "same port for server and health",
			mutate:  func(c *Config) { c.Server.HealthPort = c.Server.Port },
			wantErr: "must be different",
		},
		{
			name:    "empty secret",
			mutate:  func(c *Config) { c.Auth.Secret = "" },
			wantErr: "auth secret",
		},
		{
			name:    "non-positive TTL",
			mutate:  func(c *Config) { c.Auth.TokenTTL = 0 },
			wantErr: "TTL",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.Auth.Environment = "staging" },
			wantErr: "invalid environment",
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.Storage.DataDir = "" },
			wantErr: "data directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
