// Package observability provides structured logging, Prometheus metrics,
// health probes, and graceful shutdown for the admin console.
//
// # Logging
//
// Structured JSON logging via stdlib slog:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("email", email).Info("login succeeded")
//
// Request-scoped loggers are injected into the request context by the HTTP
// middleware and recovered with FromContext.
//
// # Metrics
//
// All metrics are registered on a private registry and exposed on the health
// port:
//
//	metrics := observability.NewMetrics(nil)
//	mux.Handle("/metrics", metrics.Handler())
//
// Session metrics record login attempts, token verification outcomes
// (valid/invalid only, causes are never exported), and gate decisions.
//
// # Health
//
// Liveness always succeeds while the process runs; readiness checks the JSON
// store through the Pinger interface.
//
// # Shutdown
//
// ShutdownManager drains the HTTP server on SIGINT/SIGTERM and then runs
// registered shutdown functions (store watcher, cron scheduler, second
// server) concurrently under a timeout.
package observability
