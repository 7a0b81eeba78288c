// Package metrics provides Prometheus metrics for the arena tournament client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the arena client.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// HTTP metrics - every outbound request goes through these
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	networkErrors       *prometheus.CounterVec

	// Degrade metrics - soft-fallback activations per resource
	fallbacks       *prometheus.CounterVec
	shapeMismatches *prometheus.CounterVec

	// Session metrics
	sessionEvents *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "arena",
		subsystem:        "client",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of outbound HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "Outbound HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method"},
	)

	m.networkErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "network_errors_total",
			Help:      "Total number of requests that failed before any response was received",
		},
		[]string{"endpoint", "method"},
	)

	m.fallbacks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "fallbacks_total",
			Help:      "Total number of soft-degrade fallback activations by resource",
		},
		[]string{"resource"},
	)

	m.shapeMismatches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "shape_mismatches_total",
			Help:      "Total number of backend responses that did not match a known shape",
		},
		[]string{"resource"},
	)

	m.sessionEvents = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "session_events_total",
			Help:      "Total number of session store events (set, clear, evict, corrupt)",
		},
		[]string{"kind"},
	)
}

// RecordRequest records an outbound HTTP request with its response status.
func RecordRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordRequestDuration records an outbound request duration in milliseconds.
func RecordRequestDuration(endpoint, method string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// RecordNetworkError records a request that received no response at all.
func RecordNetworkError(endpoint, method string) {
	globalManager.networkErrors.WithLabelValues(endpoint, method).Inc()
}

// RecordFallback records a soft-degrade fallback activation for a resource.
func RecordFallback(resource string) {
	globalManager.fallbacks.WithLabelValues(resource).Inc()
}

// RecordShapeMismatch records an unrecognized backend response shape.
func RecordShapeMismatch(resource string) {
	globalManager.shapeMismatches.WithLabelValues(resource).Inc()
}

// RecordSessionEvent records a session store event.
// kind is one of: set, clear, evict, corrupt.
func RecordSessionEvent(kind string) {
	globalManager.sessionEvents.WithLabelValues(kind).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
