// Package metrics provides Prometheus metrics for the crease
// question-answering service.
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

// Manager manages all Prometheus metrics for the crease service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Question Pipeline Metrics - What really matters for a QA dispatcher
	questionsReceived prometheus.Counter
	questionsRejected *prometheus.CounterVec
	questionsAnswered *prometheus.CounterVec
	pipelineLatency   prometheus.Histogram

	// Action Metrics - Planner and analyzer activity
	actionExecutions *prometheus.CounterVec
	analysisLatency  prometheus.Histogram

	// Model Metrics - Language model performance
	modelRequests  *prometheus.CounterVec
	modelErrors    *prometheus.CounterVec
	modelLatency   prometheus.Histogram
	modelFallbacks prometheus.Counter

	// Name Resolution Metrics
	resolutionCacheHits   prometheus.Gauge
	resolutionCacheMisses prometheus.Gauge
	resolutionFailures    prometheus.Counter

	// Dataset Metrics - Business scale indicators
	datasetBalls       prometheus.Gauge
	datasetEntryPoints prometheus.Gauge
	datasetPlayers     prometheus.Gauge
	historyTurns       prometheus.Gauge

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
		namespace:        "crease",
		subsystem:        "dispatcher",
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

	// Question Pipeline Metrics - Focus on what drives answer quality
	m.questionsReceived = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "questions_received_total",
		Help:      "Total number of questions received",
	})

	m.questionsRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "questions_rejected_total",
			Help:      "Total number of questions rejected by the validator, by concept",
		},
		[]string{"concept"},
	)

	m.questionsAnswered = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "questions_answered_total",
			Help:      "Total number of questions answered, by outcome (model, reprompted, fallback)",
		},
		[]string{"outcome"},
	)

	m.pipelineLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_latency_milliseconds",
		Help:      "Histogram of end-to-end question handling latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Action Metrics - Planner and analyzer activity
	m.actionExecutions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "action_executions_total",
			Help:      "Total number of analysis actions executed, by kind",
		},
		[]string{"kind"},
	)

	m.analysisLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analysis_latency_milliseconds",
		Help:      "Analysis action latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Model Metrics - Language model performance
	m.modelRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "model_requests_total",
			Help:      "Total number of language model requests, by provider",
		},
		[]string{"provider"},
	)

	m.modelErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "model_errors_total",
			Help:      "Total number of language model request failures, by provider",
		},
		[]string{"provider"},
	)

	m.modelLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_latency_milliseconds",
		Help:      "Language model request latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.modelFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_fallbacks_total",
		Help:      "Total number of answers served from the deterministic fallback",
	})

	// Name Resolution Metrics
	m.resolutionCacheHits = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolution_cache_hits",
		Help:      "Cumulative name resolution cache hits as reported by the cache",
	})

	m.resolutionCacheMisses = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolution_cache_misses",
		Help:      "Cumulative name resolution cache misses as reported by the cache",
	})

	m.resolutionFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolution_failures_total",
		Help:      "Total number of player names that resolved to nobody",
	})

	// Dataset Metrics - Business scale indicators
	m.datasetBalls = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_balls",
		Help:      "Number of ball-level rows in the loaded dataset",
	})

	m.datasetEntryPoints = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_entry_points",
		Help:      "Number of derived entry points in the loaded dataset",
	})

	m.datasetPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_players",
		Help:      "Number of unique players in the loaded dataset",
	})

	m.historyTurns = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_turns",
		Help:      "Number of turns currently held in conversation history",
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

// RecordQuestionReceived increments the questions received counter.
func RecordQuestionReceived() {
	globalManager.questionsReceived.Inc()
}

// RecordQuestionRejected increments the rejected counter for a concept.
func RecordQuestionRejected(concept string) {
	globalManager.questionsRejected.WithLabelValues(concept).Inc()
}

// RecordQuestionAnswered increments the answered counter for an outcome.
func RecordQuestionAnswered(outcome string) {
	globalManager.questionsAnswered.WithLabelValues(outcome).Inc()
}

// RecordPipelineLatency records end-to-end question latency in milliseconds.
func RecordPipelineLatency(latencyMs float64) {
	globalManager.pipelineLatency.Observe(latencyMs)
}

// RecordActionExecution increments the action counter for a kind.
func RecordActionExecution(kind string) {
	globalManager.actionExecutions.WithLabelValues(kind).Inc()
}

// RecordAnalysisLatency records analysis action latency in milliseconds.
func RecordAnalysisLatency(latencyMs float64) {
	globalManager.analysisLatency.Observe(latencyMs)
}

// RecordModelRequest increments the model request counter for a provider.
func RecordModelRequest(provider string) {
	globalManager.modelRequests.WithLabelValues(provider).Inc()
}

// RecordModelError increments the model error counter for a provider.
func RecordModelError(provider string) {
	globalManager.modelErrors.WithLabelValues(provider).Inc()
}

// RecordModelLatency records model request latency in milliseconds.
func RecordModelLatency(latencyMs float64) {
	globalManager.modelLatency.Observe(latencyMs)
}

// RecordModelFallback increments the fallback answer counter.
func RecordModelFallback() {
	globalManager.modelFallbacks.Inc()
}

// UpdateResolutionCacheStats mirrors the cache's own hit/miss counters.
func UpdateResolutionCacheStats(hits, misses int64) {
	globalManager.resolutionCacheHits.Set(float64(hits))
	globalManager.resolutionCacheMisses.Set(float64(misses))
}

// RecordResolutionFailure increments the unresolved name counter.
func RecordResolutionFailure() {
	globalManager.resolutionFailures.Inc()
}

// Dataset Metrics Functions.

// UpdateDatasetBalls sets the number of ball-level rows.
func UpdateDatasetBalls(count int) {
	globalManager.datasetBalls.Set(float64(count))
}

// UpdateDatasetEntryPoints sets the number of derived entry points.
func UpdateDatasetEntryPoints(count int) {
	globalManager.datasetEntryPoints.Set(float64(count))
}

// UpdateDatasetPlayers sets the number of unique players.
func UpdateDatasetPlayers(count int) {
	globalManager.datasetPlayers.Set(float64(count))
}

// UpdateHistoryTurns sets the number of turns held in history.
func UpdateHistoryTurns(count int) {
	globalManager.historyTurns.Set(float64(count))
}

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
