package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/course-planner-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec

	conflictLookups  *prometheus.CounterVec
	conflictHitRatio prometheus.Gauge
	filterOps        *prometheus.CounterVec
	catalogLoads     *prometheus.CounterVec
	catalogCourses   prometheus.Gauge
	catalogLoadedAt  prometheus.Gauge
	workspaces       prometheus.Gauge
	exports          *prometheus.CounterVec

	cacheHitCount        uint64
	cacheMissCount       uint64
	conflictHitCount     uint64
	conflictMissCount    uint64
	requestCount         uint64
	requestDurationTotal uint64
	dbQueryCount         uint64
	dbQueryDurationTotal uint64
	workspaceCount       int64

	catalogMu      sync.RWMutex
	catalogVersion string
	catalogSize    int
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

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	conflictLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conflict_cache_lookups_total",
		Help: "Section pair lookups in the conflict cache",
	}, []string{"result"})

	conflictHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "conflict_cache_hit_ratio",
		Help: "Ratio of conflict cache hits to total pair lookups",
	})

	filterOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "filter_operations_total",
		Help: "Filter state mutations by scope, operation and outcome",
	}, []string{"scope", "operation", "result"})

	catalogLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_loads_total",
		Help: "Catalog loads by origin and outcome",
	}, []string{"origin", "result"})

	catalogCourses := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_courses",
		Help: "Number of courses in the current catalog",
	})

	catalogLoadedAt := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_loaded_timestamp_seconds",
		Help: "Unix time of the last successful catalog load",
	})

	workspaces := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planner_workspaces",
		Help: "Planner workspaces held in memory",
	})

	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_exports_total",
		Help: "Rendered schedule exports by format",
	}, []string{"format"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		dbQueryDuration, conflictLookups, conflictHitRatio, filterOps, catalogLoads, catalogCourses, catalogLoadedAt,
		workspaces, exports, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheLatency:     cacheLatency,
		cacheWrite:       cacheWrite,
		cacheHitRatio:    cacheHitRatio,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		dbQueryDuration:  dbQueryDuration,
		conflictLookups:  conflictLookups,
		conflictHitRatio: conflictHitRatio,
		filterOps:        filterOps,
		catalogLoads:     catalogLoads,
		catalogCourses:   catalogCourses,
		catalogLoadedAt:  catalogLoadedAt,
		workspaces:       workspaces,
		exports:          exports,
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

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	m.cacheHitRatio.Set(ratio(atomic.LoadUint64(&m.cacheHitCount), atomic.LoadUint64(&m.cacheMissCount)))
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveConflictCache records a pairwise lookup in the conflict detector cache.
func (m *MetricsService) ObserveConflictCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.conflictLookups.WithLabelValues("hit").Inc()
		atomic.AddUint64(&m.conflictHitCount, 1)
	} else {
		m.conflictLookups.WithLabelValues("miss").Inc()
		atomic.AddUint64(&m.conflictMissCount, 1)
	}
	m.conflictHitRatio.Set(ratio(atomic.LoadUint64(&m.conflictHitCount), atomic.LoadUint64(&m.conflictMissCount)))
}

// RecordFilterOperation counts a filter mutation. A nil err counts as success.
func (m *MetricsService) RecordFilterOperation(scope models.FilterScope, operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.filterOps.WithLabelValues(string(scope), operation, result).Inc()
}

// RecordCatalogLoad tracks a catalog load attempt. origin is "feed" or "snapshot".
func (m *MetricsService) RecordCatalogLoad(origin, version string, courses int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.catalogLoads.WithLabelValues(origin, "error").Inc()
		return
	}
	m.catalogLoads.WithLabelValues(origin, "ok").Inc()
	m.catalogCourses.Set(float64(courses))
	m.catalogLoadedAt.SetToCurrentTime()
	m.catalogMu.Lock()
	m.catalogVersion = version
	m.catalogSize = courses
	m.catalogMu.Unlock()
}

// SetWorkspaces reports the number of live planner workspaces.
func (m *MetricsService) SetWorkspaces(n int) {
	if m == nil {
		return
	}
	m.workspaces.Set(float64(n))
	atomic.StoreInt64(&m.workspaceCount, int64(n))
}

// RecordExport counts a rendered schedule export.
func (m *MetricsService) RecordExport(format models.ExportFormat) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(string(format)).Inc()
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
	atomic.AddUint64(&m.dbQueryCount, 1)
	atomic.AddUint64(&m.dbQueryDurationTotal, uint64(duration.Nanoseconds()))
}

// Snapshot returns aggregated metrics for the metrics summary endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	conflictHits := atomic.LoadUint64(&m.conflictHitCount)
	conflictMisses := atomic.LoadUint64(&m.conflictMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	dbCount := atomic.LoadUint64(&m.dbQueryCount)
	dbDuration := atomic.LoadUint64(&m.dbQueryDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgDBMs float64
	if dbCount > 0 {
		avgDBMs = float64(dbDuration) / float64(dbCount) / float64(time.Millisecond)
	}

	m.catalogMu.RLock()
	version, size := m.catalogVersion, m.catalogSize
	m.catalogMu.RUnlock()

	return models.SystemMetrics{
		CacheHitRatio:            ratio(hits, misses),
		CacheHits:                hits,
		CacheMisses:              misses,
		ConflictCacheHitRatio:    ratio(conflictHits, conflictMisses),
		ConflictCacheHits:        conflictHits,
		ConflictCacheMisses:      conflictMisses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		DBQueryCount:             dbCount,
		AverageDBQueryDurationMs: avgDBMs,
		Workspaces:               int(atomic.LoadInt64(&m.workspaceCount)),
		CatalogVersion:           version,
		CatalogCourses:           size,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}

func ratio(hits, misses uint64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}
