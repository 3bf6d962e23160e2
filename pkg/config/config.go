package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/medadhere/console/pkg/observability"
)

// DevSecretFallback is the fixed development secret used when no
// MEDADHERE_AUTH_SECRET is configured. It exists so a fresh checkout runs
// without any setup; deployments must always provide their own secret, and
// startup logs a loud warning when this fallback is active outside
// development.
const DevSecretFallback = "dev-secret-medadhere-change-in-production"

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Auth          AuthConfig
	Storage       StorageConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for probes and Prometheus)
	HealthPort string

	// StaticDir holds the built dashboard UI served at /admin and /login
	StaticDir string
}

// AuthConfig holds session token configuration
type AuthConfig struct {
	// Secret signs session tokens. Process-wide, loaded once, immutable.
	Secret string
	// TokenTTL is the fixed session lifetime
	TokenTTL time.Duration
	// Environment toggles the Secure cookie attribute and the dev-secret
	// warning severity
	Environment string
}

// StorageConfig holds JSON store configuration
type StorageConfig struct {
	// DataDir holds one <collection>.json file per collection
	DataDir string
	// Watch enables fsnotify hot-reload when the files change on disk
	Watch bool
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("MEDADHERE_HOST", "0.0.0.0"),
			Port:            getEnv("MEDADHERE_PORT", "8080"),
			ReadTimeout:     getEnvDuration("MEDADHERE_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("MEDADHERE_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("MEDADHERE_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("MEDADHERE_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("MEDADHERE_HEALTH_PORT", "9090"),
			StaticDir:       getEnv("MEDADHERE_STATIC_DIR", "ui/dist"),
		},
		Auth: AuthConfig{
			Secret:      getEnv("MEDADHERE_AUTH_SECRET", DevSecretFallback),
			TokenTTL:    getEnvDuration("MEDADHERE_TOKEN_TTL", 24*time.Hour),
			Environment: getEnv("MEDADHERE_ENV", EnvDevelopment),
		},
		Storage: StorageConfig{
			DataDir: getEnv("MEDADHERE_DATA_DIR", "database"),
			Watch:   getEnvBool("MEDADHERE_DATA_WATCH", true),
		},
		Observability: ObservabilityConfig{
			LogLevel:       parseLogLevel(getEnv("MEDADHERE_LOG_LEVEL", "info")),
			MetricsEnabled: getEnvBool("MEDADHERE_METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth secret must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	switch c.Auth.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("invalid environment: %s (must be development or production)", c.Auth.Environment)
	}
	return nil
}

// IsProduction reports whether the console runs in production mode
func (c *Config) IsProduction() bool {
	return c.Auth.Environment == EnvProduction
}

// UsingDevSecret reports whether the hardcoded development fallback secret is
// in use. Callers should warn loudly when this is true in production.
func (c *Config) UsingDevSecret() bool {
	return c.Auth.Secret == DevSecretFallback
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
