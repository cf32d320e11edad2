// Package metrics provides Prometheus metrics for the REPLAY similarity search service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the REPLAY service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Search Metrics - What really matters for a similarity engine
	searchesTotal     *prometheus.CounterVec
	searchLatency     *prometheus.HistogramVec
	searchErrors      *prometheus.CounterVec
	searchResultCount *prometheus.HistogramVec
	alignmentsTotal   prometheus.Counter

	// Index Metrics - Corpus index lifecycle
	indexBuilds        prometheus.Counter
	indexBuildErrors   prometheus.Counter
	indexBuildDuration prometheus.Histogram
	indexBuildLastUnix prometheus.Gauge
	indexResets        prometheus.Counter

	// Corpus Metrics - Scale of the loaded corpus
	corpusMatches      prometheus.Gauge
	corpusSequences    prometheus.Gauge
	corpusEvents       prometheus.Gauge
	eventVocabulary    prometheus.Gauge
	sequenceVocabulary prometheus.Gauge

	// Scan Pool Metrics - Parallel alignment workers
	scanPoolCapacity prometheus.Gauge
	scanPoolRunning  prometheus.Gauge
	scanTasks        prometheus.Counter

	// Repository Metrics - Match file loading
	matchesLoaded    prometheus.Counter
	matchLoadErrors  prometheus.Counter
	matchLoadLatency prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "replay",
		subsystem:        "search",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Search Metrics - Focus on query behavior per method
	m.searchesTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "searches_total",
			Help:      "Total number of similarity searches by method",
		},
		[]string{"method"},
	)

	m.searchLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "search_latency_milliseconds",
			Help:      "Histogram of end-to-end search latency in milliseconds by method",
			Buckets:   m.histogramBuckets,
		},
		[]string{"method"},
	)

	m.searchErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "search_errors_total",
			Help:      "Total number of failed similarity searches by method",
		},
		[]string{"method"},
	)

	m.searchResultCount = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "search_result_count",
			Help:      "Number of results returned per search by method",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"method"},
	)

	m.alignmentsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alignments_total",
		Help:      "Total number of sequence alignments computed during corpus scans",
	})

	// Index Metrics - Build-once corpus index lifecycle
	m.indexBuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "index_builds_total",
		Help:      "Total number of corpus index builds",
	})

	m.indexBuildErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "index_build_errors_total",
		Help:      "Total number of corpus index build failures",
	})

	m.indexBuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "index_build_duration_milliseconds",
		Help:      "Corpus index build duration in milliseconds",
		Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})

	m.indexBuildLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "index_build_last_unix",
		Help:      "Unix timestamp of the last corpus index build",
	})

	m.indexResets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "index_resets_total",
		Help:      "Total number of corpus index resets",
	})

	// Corpus Metrics - Business scale indicators
	m.corpusMatches = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "corpus_matches",
		Help:      "Number of matches in the indexed corpus",
	})

	m.corpusSequences = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "corpus_sequences",
		Help:      "Number of possession sequences in the indexed corpus",
	})

	m.corpusEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "corpus_events",
		Help:      "Number of events in the indexed corpus",
	})

	m.eventVocabulary = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "event_vocabulary_size",
		Help:      "Size of the fitted event token vocabulary",
	})

	m.sequenceVocabulary = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sequence_vocabulary_size",
		Help:      "Size of the fitted sequence token vocabulary",
	})

	// Scan Pool Metrics - Parallel DTW scan capacity
	m.scanPoolCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scan_pool_capacity",
		Help:      "Maximum number of concurrent corpus scan workers",
	})

	m.scanPoolRunning = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scan_pool_running",
		Help:      "Number of corpus scan workers currently running",
	})

	m.scanTasks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scan_tasks_total",
		Help:      "Total number of corpus scan tasks submitted to the pool",
	})

	// Repository Metrics - Match file loading
	m.matchesLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_loaded_total",
		Help:      "Total number of match files loaded from the corpus directory",
	})

	m.matchLoadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_load_errors_total",
		Help:      "Total number of match files that failed to load or parse",
	})

	m.matchLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_load_latency_milliseconds",
		Help:      "Match file load and normalization latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds (user experience)",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Enhanced Error Metrics - Detailed error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Latency of operations that resulted in errors",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Search Metrics Functions.

// RecordSearch increments the search counter for a method.
func RecordSearch(method string) {
	globalManager.searchesTotal.WithLabelValues(method).Inc()
}

// RecordSearchLatency records end-to-end search latency in milliseconds.
func RecordSearchLatency(method string, latencyMs float64) {
	globalManager.searchLatency.WithLabelValues(method).Observe(latencyMs)
}

// RecordSearchError increments the search error counter for a method.
func RecordSearchError(method string) {
	globalManager.searchErrors.WithLabelValues(method).Inc()
}

// RecordSearchResultCount records the number of results returned by a search.
func RecordSearchResultCount(method string, count int) {
	globalManager.searchResultCount.WithLabelValues(method).Observe(float64(count))
}

// RecordAlignments adds to the total number of computed alignments.
func RecordAlignments(count int) {
	globalManager.alignmentsTotal.Add(float64(count))
}

// Index Metrics Functions.

// RecordIndexBuild increments the index build counter.
func RecordIndexBuild() {
	globalManager.indexBuilds.Inc()
}

// RecordIndexBuildError increments the index build error counter.
func RecordIndexBuildError() {
	globalManager.indexBuildErrors.Inc()
}

// RecordIndexBuildDuration records index build duration in milliseconds.
func RecordIndexBuildDuration(durationMs float64) {
	globalManager.indexBuildDuration.Observe(durationMs)
}

// UpdateIndexBuildLastUnix sets the timestamp of the last index build.
func UpdateIndexBuildLastUnix(ts int64) {
	globalManager.indexBuildLastUnix.Set(float64(ts))
}

// RecordIndexReset increments the index reset counter.
func RecordIndexReset() {
	globalManager.indexResets.Inc()
}

// Corpus Metrics Functions.

// UpdateCorpusMatches sets the number of indexed matches.
func UpdateCorpusMatches(count int) {
	globalManager.corpusMatches.Set(float64(count))
}

// UpdateCorpusSequences sets the number of indexed sequences.
func UpdateCorpusSequences(count int) {
	globalManager.corpusSequences.Set(float64(count))
}

// UpdateCorpusEvents sets the number of indexed events.
func UpdateCorpusEvents(count int) {
	globalManager.corpusEvents.Set(float64(count))
}

// UpdateEventVocabulary sets the fitted event vocabulary size.
func UpdateEventVocabulary(size int) {
	globalManager.eventVocabulary.Set(float64(size))
}

// UpdateSequenceVocabulary sets the fitted sequence vocabulary size.
func UpdateSequenceVocabulary(size int) {
	globalManager.sequenceVocabulary.Set(float64(size))
}

// Scan Pool Metrics Functions.

// UpdateScanPoolCapacity sets the scan pool capacity.
func UpdateScanPoolCapacity(capacity int) {
	globalManager.scanPoolCapacity.Set(float64(capacity))
}

// UpdateScanPoolRunning sets the number of scan workers currently running.
func UpdateScanPoolRunning(count int) {
	globalManager.scanPoolRunning.Set(float64(count))
}

// RecordScanTask increments the scan task counter.
func RecordScanTask() {
	globalManager.scanTasks.Inc()
}

// Repository Metrics Functions.

// RecordMatchLoaded increments the loaded match counter.
func RecordMatchLoaded() {
	globalManager.matchesLoaded.Inc()
}

// RecordMatchLoadError increments the match load error counter.
func RecordMatchLoadError() {
	globalManager.matchLoadErrors.Inc()
}

// RecordMatchLoadLatency records match load latency in milliseconds.
func RecordMatchLoadLatency(latencyMs float64) {
	globalManager.matchLoadLatency.Observe(latencyMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
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
