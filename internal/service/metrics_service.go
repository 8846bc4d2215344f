package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// solver. A private registry keeps the scrape surface limited to what this
// process owns.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	solverRuns      *prometheus.CounterVec
	solverDuration  prometheus.Observer
	batchSize       prometheus.Observer
	placementDrops  *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	solverRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solver_runs_total",
		Help: "Total solver invocations by outcome",
	}, []string{"outcome"})

	solverDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solver_duration_seconds",
		Help:    "Wall time of solver invocations",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	batchSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solver_batch_size",
		Help:    "Participants per batch solve",
		Buckets: []float64{1, 2, 5, 10, 20, 50},
	})

	placementDrops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placement_drops_total",
		Help: "Drag and drop outcomes",
	}, []string{"accepted"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheHits, cacheMisses,
		solverRuns, solverDuration, batchSize, placementDrops, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		solverRuns:      solverRuns,
		solverDuration:  solverDuration,
		batchSize:       batchSize,
		placementDrops:  placementDrops,
	}
}

// Handler exposes the scrape endpoint for the private registry.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// RecordHTTPRequest observes one completed request.
func (s *MetricsService) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// RecordCacheOperation observes one cache lookup.
func (s *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	s.cacheLatency.Observe(duration.Seconds())
	if hit {
		s.cacheHits.Inc()
	} else {
		s.cacheMisses.Inc()
	}
}

// RecordSolverRun observes one solver invocation.
func (s *MetricsService) RecordSolverRun(scheduled bool, duration time.Duration) {
	outcome := "scheduled"
	if !scheduled {
		outcome = "unscheduled"
	}
	s.solverRuns.WithLabelValues(outcome).Inc()
	s.solverDuration.Observe(duration.Seconds())
}

// RecordBatchSolve observes one batch run.
func (s *MetricsService) RecordBatchSolve(participants int, duration time.Duration) {
	s.batchSize.Observe(float64(participants))
	s.solverDuration.Observe(duration.Seconds())
}

// RecordPlacementDrop observes one drag and drop outcome.
func (s *MetricsService) RecordPlacementDrop(accepted bool) {
	s.placementDrops.WithLabelValues(strconv.FormatBool(accepted)).Inc()
}
