// Package metrics provides Prometheus metrics for the prizeboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the prizeboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Dataset Metrics - what the dashboard is computed from
	recordsLoaded     prometheus.Counter
	recordsRejected   *prometheus.CounterVec
	unknownReferences *prometheus.CounterVec
	datasetRecords    prometheus.Gauge
	datasetPlayers    prometheus.Gauge
	datasetLoadTime   prometheus.Histogram
	datasetLoadedUnix prometheus.Gauge

	// Query Metrics
	queries      *prometheus.CounterVec
	queryLatency *prometheus.HistogramVec

	// Batch Metrics - job queue and worker pool
	batchQueueSize     prometheus.Gauge
	batchQueueCapacity prometheus.Gauge
	batchJobs          *prometheus.CounterVec
	workerActiveCount  prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "prizeboard",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogram(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.recordsLoaded = auto.NewCounter(m.counter("records_loaded_total",
		"Total number of tournament records accepted by the loader"))
	m.recordsRejected = auto.NewCounterVec(m.counter("records_rejected_total",
		"Total number of tournament records rejected by the loader"), []string{"reason"})
	m.unknownReferences = auto.NewCounterVec(m.counter("unknown_references_total",
		"Rows whose foreign key had no match in a reference table"), []string{"table"})
	m.datasetRecords = auto.NewGauge(m.gauge("dataset_records",
		"Number of tournament records in the active dataset"))
	m.datasetPlayers = auto.NewGauge(m.gauge("dataset_players",
		"Number of distinct players in the active dataset"))
	m.datasetLoadTime = auto.NewHistogram(m.histogram("dataset_load_duration_milliseconds",
		"Time spent loading and validating the dataset in milliseconds"))
	m.datasetLoadedUnix = auto.NewGauge(m.gauge("dataset_loaded_unix",
		"Unix timestamp of the last successful dataset load"))

	m.queries = auto.NewCounterVec(m.counter("queries_total",
		"Total number of facade queries by kind"), []string{"kind"})
	m.queryLatency = auto.NewHistogramVec(m.histogram("query_latency_milliseconds",
		"Facade query latency in milliseconds by kind"), []string{"kind"})

	m.batchQueueSize = auto.NewGauge(m.gauge("batch_queue_size",
		"Current number of queued batch jobs"))
	m.batchQueueCapacity = auto.NewGauge(m.gauge("batch_queue_capacity",
		"Maximum number of queued batch jobs"))
	m.batchJobs = auto.NewCounterVec(m.counter("batch_jobs_total",
		"Batch jobs by outcome"), []string{"outcome"})
	m.workerActiveCount = auto.NewGauge(m.gauge("worker_active_count",
		"Number of workers currently executing a job"))

	m.httpRequests = auto.NewCounterVec(m.counter("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogram("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counter("errors_by_component_total",
		"Errors grouped by component and error type"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counter("errors_by_type_total",
		"Errors grouped by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counter("errors_by_endpoint_total",
		"Errors grouped by endpoint, method and error type"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_usage_bytes",
		"System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutine_count",
		"Number of goroutines"))
}

// RecordRecordsLoaded adds n accepted records.
func RecordRecordsLoaded(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.recordsLoaded.Add(float64(n))
}

// RecordRecordRejected counts one rejected record.
func RecordRecordRejected(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.recordsRejected.WithLabelValues(reason).Inc()
}

// RecordUnknownReference counts a foreign key missing from table.
func RecordUnknownReference(table string) {
	if !globalManager.enabled {
		return
	}
	globalManager.unknownReferences.WithLabelValues(table).Inc()
}

// UpdateDatasetSize sets the record and player gauges.
func UpdateDatasetSize(records, players int) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetRecords.Set(float64(records))
	globalManager.datasetPlayers.Set(float64(players))
}

// RecordDatasetLoad records a completed load.
func RecordDatasetLoad(durationMs float64, unix int64) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetLoadTime.Observe(durationMs)
	globalManager.datasetLoadedUnix.Set(float64(unix))
}

// RecordQuery records one facade query of the given kind.
func RecordQuery(kind string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.queries.WithLabelValues(kind).Inc()
	globalManager.queryLatency.WithLabelValues(kind).Observe(latencyMs)
}

// UpdateBatchQueueSize sets the current queue depth.
func UpdateBatchQueueSize(size int) {
	if !globalManager.enabled {
		return
	}
	globalManager.batchQueueSize.Set(float64(size))
}

// UpdateBatchQueueCapacity sets the queue capacity.
func UpdateBatchQueueCapacity(capacity int) {
	if !globalManager.enabled {
		return
	}
	globalManager.batchQueueCapacity.Set(float64(capacity))
}

// RecordBatchJob counts a job by outcome: ok, error, rejected.
func RecordBatchJob(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.batchJobs.WithLabelValues(outcome).Inc()
}

// AddWorkerActive adjusts the active worker gauge by delta.
func AddWorkerActive(delta int) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerActiveCount.Add(float64(delta))
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent increments the error counter for a component.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType increments the error counter for a type and severity.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint increments the error counter for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage updates system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// SetEnabled turns recording on or off for the global manager.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}
