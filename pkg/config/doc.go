// Package config provides application configuration management from environment variables.
//
// All settings have working defaults so a fresh checkout starts without
// setup:
//
//	MEDADHERE_HOST="0.0.0.0"
//	MEDADHERE_PORT="8080"
//	MEDADHERE_HEALTH_PORT="9090"
//	MEDADHERE_STATIC_DIR="ui/dist"
//
//	MEDADHERE_AUTH_SECRET=""        # falls back to the dev secret, see below
//	MEDADHERE_TOKEN_TTL="24h"
//	MEDADHERE_ENV="development"     # development or production
//
//	MEDADHERE_DATA_DIR="database"   # one <collection>.json per collection
//	MEDADHERE_DATA_WATCH="true"
//
//	MEDADHERE_LOG_LEVEL="info"      # debug, info, warn, error
//	MEDADHERE_METRICS_ENABLED="true"
//
// # The development secret
//
// When MEDADHERE_AUTH_SECRET is unset, the fixed DevSecretFallback signs
// session tokens. That is a local-development convenience only: main checks
// UsingDevSecret() at startup and logs an error-level warning when the
// fallback is active in production. The secret is loaded once and treated as
// immutable for the process lifetime.
package config
