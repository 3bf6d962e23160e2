package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Session metrics
	LoginAttemptsTotal      *prometheus.CounterVec
	TokenVerificationsTotal *prometheus.CounterVec
	GateDecisionsTotal      *prometheus.CounterVec

	// Store metrics
	StoreReloadsTotal     prometheus.Counter
	StoreWriteErrorsTotal prometheus.Counter

	// Rollup metrics
	RollupRunsTotal *prometheus.CounterVec
	RollupDuration  prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medadhere_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "medadhere_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medadhere_login_attempts_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		TokenVerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medadhere_token_verifications_total",
				Help: "Total number of session token verifications by result",
			},
			[]string{"result"},
		),
		GateDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medadhere_gate_decisions_total",
				Help: "Total number of session gate decisions",
			},
			[]string{"decision"},
		),
		StoreReloadsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "medadhere_store_reloads_total",
				Help: "Total number of JSON store reloads",
			},
		),
		StoreWriteErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "medadhere_store_write_errors_total",
				Help: "Total number of JSON store write failures",
			},
		),
		RollupRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medadhere_rollup_runs_total",
				Help: "Total number of adherence rollup runs by result",
			},
			[]string{"result"},
		),
		RollupDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "medadhere_rollup_duration_seconds",
				Help:    "Adherence rollup duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LoginAttemptsTotal,
		m.TokenVerificationsTotal,
		m.GateDecisionsTotal,
		m.StoreReloadsTotal,
		m.StoreWriteErrorsTotal,
		m.RollupRunsTotal,
		m.RollupDuration,
	)

	return m
}

// Handler returns an HTTP handler exposing the metrics registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records a completed HTTP request
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordLoginAttempt records a login attempt outcome
func (m *Metrics) RecordLoginAttempt(success bool) {
	m.LoginAttemptsTotal.WithLabelValues(boolResult(success)).Inc()
}

// RecordTokenVerification records a token verification outcome. Failure causes
// are deliberately not distinguished here; callers only see valid/invalid.
func (m *Metrics) RecordTokenVerification(valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.TokenVerificationsTotal.WithLabelValues(result).Inc()
}

// RecordGateDecision records a session gate decision
func (m *Metrics) RecordGateDecision(decision string) {
	m.GateDecisionsTotal.WithLabelValues(decision).Inc()
}

// RecordRollup records an adherence rollup run
func (m *Metrics) RecordRollup(success bool, duration time.Duration) {
	m.RollupRunsTotal.WithLabelValues(boolResult(success)).Inc()
	m.RollupDuration.Observe(duration.Seconds())
}

func boolResult(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
