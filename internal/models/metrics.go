package models

import "time"

// SystemMetrics is a lightweight view of the service instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	ConflictCacheHitRatio    float64   `json:"conflict_cache_hit_ratio"`
	ConflictCacheHits        uint64    `json:"conflict_cache_hits"`
	ConflictCacheMisses      uint64    `json:"conflict_cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Workspaces               int       `json:"workspaces"`
	CatalogVersion           string    `json:"catalog_version"`
	CatalogCourses           int       `json:"catalog_courses"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
