// Package metrics provides Prometheus metrics for the skill progression
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultManager backs the package-level helpers. Adapters call the helpers
// directly so instrumented code stays free of plumbing.
var defaultManager *Manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	defaultManager = NewManager()
}

// Manager owns every Prometheus collector the service exposes.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	enabled   bool
	registry  *prometheus.Registry

	// Fact pipeline
	factsProcessed prometheus.Counter
	factsDuplicate prometheus.Counter
	factsSkipped   prometheus.Counter
	ratingUpdates  prometheus.Counter
	applyLatency   prometheus.Histogram
	workerErrors   prometheus.Counter
	workerCount    prometheus.Gauge

	// Replay reads
	replays        *prometheus.CounterVec
	replayDuration *prometheus.HistogramVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Store
	storeUpdateLatency prometheus.Histogram
	storeQueryLatency  prometheus.Histogram
	totalCompetitors   prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
}

// NewManager creates a manager and registers all collectors on its registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "agon",
		subsystem: "engine",
		buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		enabled:   true,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.factsProcessed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "facts_processed_total", Help: "Tournament facts applied to rating state.",
	})
	m.factsDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "facts_duplicate_total", Help: "Facts rejected by idempotency tracking.",
	})
	m.factsSkipped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "facts_skipped_total", Help: "Facts with no usable placement or mapped skills.",
	})
	m.ratingUpdates = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "rating_updates_total", Help: "Per-skill rating state advances.",
	})
	m.applyLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "apply_latency_ms", Help: "Latency of applying one fact.", Buckets: m.buckets,
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total", Help: "Worker processing errors.",
	})
	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count", Help: "Number of running workers.",
	})

	m.replays = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "replays_total", Help: "History replays by operation.",
	}, []string{"operation"})
	m.replayDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "replay_duration_ms", Help: "Replay duration by operation.", Buckets: m.buckets,
	}, []string{"operation"})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size", Help: "Facts currently queued.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity", Help: "Configured queue capacity.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization", Help: "Queue fill ratio.",
	})
	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueues_total", Help: "Successful enqueues.",
	})
	m.queueDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_dequeues_total", Help: "Successful dequeues.",
	})
	m.queueEnqueueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total", Help: "Rejected enqueues.",
	})

	m.storeUpdateLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "store_update_latency_ms", Help: "Store write latency.", Buckets: m.buckets,
	})
	m.storeQueryLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "store_query_latency_ms", Help: "Store read latency.", Buckets: m.buckets,
	})
	m.totalCompetitors = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "total_competitors", Help: "Competitors with stored data.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name: "requests_total", Help: "HTTP requests by endpoint, method, and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name: "request_duration_ms", Help: "HTTP request duration.", Buckets: m.buckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "errors_total", Help: "Errors by component and type.",
	}, []string{"component", "type"})
}

// Registry returns the manager's Prometheus registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Package-level helpers, delegating to the default manager.

func RecordFactProcessed() {
	if defaultManager.enabled {
		defaultManager.factsProcessed.Inc()
	}
}

func RecordFactDuplicate() {
	if defaultManager.enabled {
		defaultManager.factsDuplicate.Inc()
	}
}

func RecordFactSkipped() {
	if defaultManager.enabled {
		defaultManager.factsSkipped.Inc()
	}
}

func RecordRatingUpdate() {
	if defaultManager.enabled {
		defaultManager.ratingUpdates.Inc()
	}
}

func RecordApplyLatency(latencyMs float64) {
	if defaultManager.enabled {
		defaultManager.applyLatency.Observe(latencyMs)
	}
}

func RecordWorkerError() {
	if defaultManager.enabled {
		defaultManager.workerErrors.Inc()
	}
}

func UpdateWorkerCount(count int) {
	if defaultManager.enabled {
		defaultManager.workerCount.Set(float64(count))
	}
}

func RecordReplay(operation string) {
	if defaultManager.enabled {
		defaultManager.replays.WithLabelValues(operation).Inc()
	}
}

func RecordReplayDuration(operation string, durationMs float64) {
	if defaultManager.enabled {
		defaultManager.replayDuration.WithLabelValues(operation).Observe(durationMs)
	}
}

func UpdateQueueSize(size int) {
	if defaultManager.enabled {
		defaultManager.queueSize.Set(float64(size))
	}
}

func UpdateQueueCapacity(capacity int) {
	if defaultManager.enabled {
		defaultManager.queueCapacity.Set(float64(capacity))
	}
}

func UpdateQueueUtilization(utilization float64) {
	if defaultManager.enabled {
		defaultManager.queueUtilization.Set(utilization)
	}
}

func RecordQueueEnqueue() {
	if defaultManager.enabled {
		defaultManager.queueEnqueues.Inc()
	}
}

func RecordQueueDequeue() {
	if defaultManager.enabled {
		defaultManager.queueDequeues.Inc()
	}
}

func RecordQueueEnqueueError() {
	if defaultManager.enabled {
		defaultManager.queueEnqueueErrors.Inc()
	}
}

func RecordStoreUpdateLatency(latencyMs float64) {
	if defaultManager.enabled {
		defaultManager.storeUpdateLatency.Observe(latencyMs)
	}
}

func RecordStoreQueryLatency(latencyMs float64) {
	if defaultManager.enabled {
		defaultManager.storeQueryLatency.Observe(latencyMs)
	}
}

func UpdateTotalCompetitors(count int) {
	if defaultManager.enabled {
		defaultManager.totalCompetitors.Set(float64(count))
	}
}

func RecordHTTPRequest(endpoint, method, status string) {
	if defaultManager.enabled {
		defaultManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	if defaultManager.enabled {
		defaultManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
	}
}

func RecordErrorByComponent(component, errorType string) {
	if defaultManager.enabled {
		defaultManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// GetRegistry returns the default manager's registry for serving /healthz.
func GetRegistry() *prometheus.Registry {
	return defaultManager.registry
}
