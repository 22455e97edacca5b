package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the remote service and the sync client.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	remoteFallbacks    *prometheus.CounterVec
	accountTransitions *prometheus.CounterVec
	dbQueryDuration    *prometheus.HistogramVec
	cacheRequests      *prometheus.CounterVec
	cacheDuration      *prometheus.HistogramVec

	fallbackCount uint64
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

	remoteFallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_remote_fallbacks_total",
		Help: "Remote reads answered from the local store after a remote failure",
	}, []string{"entity"})

	accountTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "account_transitions_total",
		Help: "Account lifecycle events applied",
	}, []string{"event"})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	cacheRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "List cache lookups by result",
	}, []string{"result"})

	cacheDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cache_operation_duration_seconds",
		Help:    "Duration of cache reads and writes",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, remoteFallbacks, accountTransitions, dbQueryDuration, cacheRequests, cacheDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:           registry,
		handler:            handler,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		remoteFallbacks:    remoteFallbacks,
		accountTransitions: accountTransitions,
		dbQueryDuration:    dbQueryDuration,
		cacheRequests:      cacheRequests,
		cacheDuration:      cacheDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordFallback counts a remote read served from the local store.
func (m *MetricsService) RecordFallback(entity string) {
	if m == nil {
		return
	}
	m.remoteFallbacks.WithLabelValues(entity).Inc()
	atomic.AddUint64(&m.fallbackCount, 1)
}

// Fallbacks returns the number of fallbacks recorded so far.
func (m *MetricsService) Fallbacks() uint64 {
	if m == nil {
		return 0
	}
	return atomic.LoadUint64(&m.fallbackCount)
}

// RecordTransition counts an applied lifecycle event such as "approve" or "reject".
func (m *MetricsService) RecordTransition(event string) {
	if m == nil {
		return
	}
	m.accountTransitions.WithLabelValues(event).Inc()
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordCacheOperation records a cache lookup and its latency.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheRequests.WithLabelValues(result).Inc()
	m.cacheDuration.WithLabelValues("get").Observe(duration.Seconds())
}

// ObserveCacheWrite records the latency of a cache write.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheDuration.WithLabelValues("set").Observe(duration.Seconds())
}
