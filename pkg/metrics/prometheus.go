// Package metrics provides Prometheus metrics for the WASK leaderboard service.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Business metrics
	submissions  *prometheus.CounterVec
	recordsTotal prometheus.Gauge
	pageRenders  prometheus.Counter

	// Store metrics
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var (
	globalManager  atomic.Pointer[Manager]             //nolint:gochecknoglobals // singleton metrics manager
	globalRegistry atomic.Pointer[prometheus.Registry] //nolint:gochecknoglobals // registry without default Go collectors
)

func init() { //nolint:gochecknoinits // global metrics setup
	Configure()
}

// Configure rebuilds the global manager on a fresh registry. It is meant to
// be called once at startup, before any handler publishes GetRegistry.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	m := NewManager(append(opts[:len(opts):len(opts)], WithPrometheusRegistry(registry))...)
	globalRegistry.Store(registry)
	globalManager.Store(m)
}

func current() *Manager { return globalManager.Load() }

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "wask",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.submissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "submissions_total",
		Help:        "Total number of stored race results by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.recordsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_total",
		Help:        "Number of score records held by the store",
		ConstLabels: m.constLabels,
	})

	m.pageRenders = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "page_renders_total",
		Help:        "Total number of HTML leaderboard renders",
		ConstLabels: m.constLabels,
	})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_operation_latency_milliseconds",
		Help:        "Store operation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"driver", "op"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_errors_total",
		Help:        "Total number of failed store operations",
		ConstLabels: m.constLabels,
	}, []string{"driver", "op"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "HTTP error responses by endpoint, method and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})
}

// RecordSubmission increments the stored-results counter for an outcome.
func RecordSubmission(outcome string) {
	current().submissions.WithLabelValues(outcome).Inc()
}

// UpdateRecordsTotal sets the number of records in the store.
func UpdateRecordsTotal(count int) {
	current().recordsTotal.Set(float64(count))
}

// RecordPageRender increments the HTML render counter.
func RecordPageRender() {
	current().pageRenders.Inc()
}

// RecordStoreLatency records how long a store operation took.
func RecordStoreLatency(driver, op string, latencyMs float64) {
	current().storeLatency.WithLabelValues(driver, op).Observe(latencyMs)
}

// RecordStoreError increments the failed store operations counter.
func RecordStoreError(driver, op string) {
	current().storeErrors.WithLabelValues(driver, op).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	current().httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	current().httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	current().errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	current().systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	current().systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	current().systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry the global manager publishes to.
func GetRegistry() *prometheus.Registry {
	return globalRegistry.Load()
}
