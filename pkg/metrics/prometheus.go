// Package metrics provides Prometheus metrics for the zipheat choropleth service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Label values for tooltip lookups.
const (
	TooltipFound    = "found"
	TooltipNotFound = "not_found"
	TooltipPartial  = "partial"
)

// Label values for verifier checks.
const (
	VerifyMatch    = "match"
	VerifyMismatch = "mismatch"
	VerifyError    = "error"
)

// Manager manages all Prometheus metrics for the zipheat service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Dataset metrics
	featuresLoaded        prometheus.Gauge
	featuresWithoutMetric prometheus.Gauge
	featuresByBucket      *prometheus.GaugeVec
	datasetLoadDuration   prometheus.Histogram
	datasetLoadedUnix     prometheus.Gauge
	iconsPlaced           prometheus.Gauge
	iconsDropped          prometheus.Gauge

	// Request-path metrics
	colorLookups    *prometheus.CounterVec
	tooltipRequests *prometheus.CounterVec
	legendRenders   *prometheus.CounterVec
	verifyChecks    *prometheus.CounterVec

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System performance metrics
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

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "zipheat",
		subsystem:        "choropleth",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}
	if !m.enabled {
		// Collect into a registry nobody scrapes.
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

// RefreshInterval is how often periodic gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) name(n string) string { return m.metricPrefix + n }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.featuresLoaded = auto.NewGauge(m.gaugeOpts("features_loaded",
		"Number of ZIP code features in the loaded dataset"))
	m.featuresWithoutMetric = auto.NewGauge(m.gaugeOpts("features_without_metric",
		"Features whose metric property is missing or not a finite number"))
	m.featuresByBucket = auto.NewGaugeVec(m.gaugeOpts("features_by_bucket",
		"Number of features per color bucket (-1 is no data)"), []string{"bucket"})
	m.datasetLoadDuration = auto.NewHistogram(m.histogramOpts("dataset_load_duration_milliseconds",
		"Time to read and index the GeoJSON dataset in milliseconds", m.histogramBuckets))
	m.datasetLoadedUnix = auto.NewGauge(m.gaugeOpts("dataset_loaded_unix",
		"Unix timestamp of the last dataset load"))
	m.iconsPlaced = auto.NewGauge(m.gaugeOpts("icons_placed",
		"Chart icons with a resolved map position"))
	m.iconsDropped = auto.NewGauge(m.gaugeOpts("icons_dropped",
		"Chart icons without position or matching feature"))

	m.colorLookups = auto.NewCounterVec(m.counterOpts("color_lookups_total",
		"Color lookups by outcome: in_domain, saturated or no_data"), []string{"outcome"})
	m.tooltipRequests = auto.NewCounterVec(m.counterOpts("tooltip_requests_total",
		"Tooltip lookups by result"), []string{"result"})
	m.legendRenders = auto.NewCounterVec(m.counterOpts("legend_renders_total",
		"Legend renders by output format"), []string{"format"})
	m.verifyChecks = auto.NewCounterVec(m.counterOpts("verify_checks_total",
		"Remote verification checks by result"), []string{"check", "result"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Total number of errors by component"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Total number of errors by type"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// ObserveDatasetLoad records a finished dataset load.
func (m *Manager) ObserveDatasetLoad(features int, took time.Duration) {
	m.featuresLoaded.Set(float64(features))
	m.datasetLoadDuration.Observe(float64(took) / float64(time.Millisecond))
	m.datasetLoadedUnix.Set(float64(time.Now().Unix()))
}

// SetBucketCounts replaces the per-bucket feature gauges. missing counts
// features without a usable metric.
func (m *Manager) SetBucketCounts(counts map[int]int, missing int) {
	m.featuresByBucket.Reset()
	for bucket, n := range counts {
		m.featuresByBucket.WithLabelValues(strconv.Itoa(bucket)).Set(float64(n))
	}
	m.featuresWithoutMetric.Set(float64(missing))
}

// SetIcons records icon placement results.
func (m *Manager) SetIcons(placed, dropped int) {
	m.iconsPlaced.Set(float64(placed))
	m.iconsDropped.Set(float64(dropped))
}

// RecordColorLookup counts a value-to-color lookup.
func (m *Manager) RecordColorLookup(outcome string) {
	m.colorLookups.WithLabelValues(outcome).Inc()
}

// RecordTooltip counts a tooltip lookup.
func (m *Manager) RecordTooltip(result string) {
	m.tooltipRequests.WithLabelValues(result).Inc()
}

// RecordLegendRender counts a legend render in the given format.
func (m *Manager) RecordLegendRender(format string) {
	m.legendRenders.WithLabelValues(format).Inc()
}

// RecordVerifyCheck counts one verifier check.
func (m *Manager) RecordVerifyCheck(check, result string) {
	m.verifyChecks.WithLabelValues(check, result).Inc()
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystem sets memory and goroutine gauges and records a GC pause sample.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if gcPauseMs > 0 {
		m.systemGCPauseTime.Observe(gcPauseMs)
	}
}

// Package-level helpers record on the global manager.

// ObserveDatasetLoad records a finished dataset load.
func ObserveDatasetLoad(features int, took time.Duration) {
	globalManager.ObserveDatasetLoad(features, took)
}

// SetBucketCounts replaces the per-bucket feature gauges.
func SetBucketCounts(counts map[int]int, missing int) { globalManager.SetBucketCounts(counts, missing) }

// SetIcons records icon placement results.
func SetIcons(placed, dropped int) { globalManager.SetIcons(placed, dropped) }

// RecordColorLookup counts a value-to-color lookup.
func RecordColorLookup(outcome string) { globalManager.RecordColorLookup(outcome) }

// RecordTooltip counts a tooltip lookup.
func RecordTooltip(result string) { globalManager.RecordTooltip(result) }

// RecordLegendRender counts a legend render.
func RecordLegendRender(format string) { globalManager.RecordLegendRender(format) }

// RecordVerifyCheck counts one verifier check.
func RecordVerifyCheck(check, result string) { globalManager.RecordVerifyCheck(check, result) }

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystem sets the system gauges on the global manager.
func UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	globalManager.UpdateSystem(memBytes, goroutines, gcPauseMs)
}

// RefreshInterval is the global manager's refresh interval.
func RefreshInterval() time.Duration { return globalManager.RefreshInterval() }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
