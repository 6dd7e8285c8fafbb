// Package metrics provides Prometheus metrics for the unirank dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the dashboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Base table
	recordsLoaded  prometheus.Gauge
	loadsTotal     prometheus.Counter
	loadDuration   prometheus.Histogram
	parseDegraded  *prometheus.CounterVec
	countriesTotal prometheus.Gauge

	// Derived views
	viewsComputed       *prometheus.CounterVec
	viewComputeDuration *prometheus.HistogramVec

	// Geographic join
	geoFeatures  prometheus.Gauge
	geoUnmatched prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure replaces the global manager with one built from opts on a fresh
// custom registry. Call it once at startup, before any handler captures
// GetRegistry and before metrics are recorded from other goroutines.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(registry)}, opts...)...)
	customRegistry = registry
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "unirank",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsLoaded = auto.NewGauge(m.gaugeOpts(
		"records_loaded", "Number of university records in the base table"))
	m.loadsTotal = auto.NewCounter(m.counterOpts(
		"loads_total", "Number of completed base table loads"))
	m.loadDuration = auto.NewHistogram(m.histogramOpts(
		"load_duration_milliseconds", "Time to read and parse the ranking table",
		[]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}))
	m.parseDegraded = auto.NewCounterVec(m.counterOpts(
		"parse_degraded_fields_total", "Fields replaced by a fallback value while parsing, by column"),
		[]string{"field"})
	m.countriesTotal = auto.NewGauge(m.gaugeOpts(
		"countries", "Number of distinct countries in the base table"))

	m.viewsComputed = auto.NewCounterVec(m.counterOpts(
		"views_computed_total", "Number of derived views computed, by view"),
		[]string{"view"})
	m.viewComputeDuration = auto.NewHistogramVec(m.histogramOpts(
		"view_compute_duration_milliseconds", "Time to derive a view from the base table",
		m.histogramBuckets), []string{"view"})

	m.geoFeatures = auto.NewGauge(m.gaugeOpts(
		"geo_boundary_features", "Number of features in the loaded boundary source"))
	m.geoUnmatched = auto.NewGauge(m.gaugeOpts(
		"geo_unmatched_countries", "Ranking table countries with no boundary feature after alias resolution"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Base table metrics.

// UpdateRecordsLoaded sets the number of records in the base table.
func UpdateRecordsLoaded(count int) {
	globalManager.recordsLoaded.Set(float64(count))
}

// RecordLoad counts a completed load and observes its duration.
func RecordLoad(durationMs float64) {
	globalManager.loadsTotal.Inc()
	globalManager.loadDuration.Observe(durationMs)
}

// RecordDegradedFields adds n fallback substitutions for column field.
func RecordDegradedFields(field string, n int) {
	if n <= 0 {
		return
	}
	globalManager.parseDegraded.WithLabelValues(field).Add(float64(n))
}

// UpdateCountries sets the number of distinct countries.
func UpdateCountries(count int) {
	globalManager.countriesTotal.Set(float64(count))
}

// View metrics.

// RecordViewCompute counts one computation of view and its duration.
func RecordViewCompute(view string, durationMs float64) {
	globalManager.viewsComputed.WithLabelValues(view).Inc()
	globalManager.viewComputeDuration.WithLabelValues(view).Observe(durationMs)
}

// Geographic metrics.

// UpdateGeoFeatures sets the number of boundary features.
func UpdateGeoFeatures(count int) {
	globalManager.geoFeatures.Set(float64(count))
}

// UpdateGeoUnmatched sets the number of ranking countries without a boundary.
func UpdateGeoUnmatched(count int) {
	globalManager.geoUnmatched.Set(float64(count))
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
