package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached catalog pages.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CatalogCachePattern matches every cached catalog page.
const CatalogCachePattern = "catalog:*"

// cacheSuspendWindow is how long the page cache is bypassed after the backend errors.
const cacheSuspendWindow = 30 * time.Second

// PageKey identifies one page of filtered courses.
type PageKey struct {
	Version     string
	Fingerprint string
	Page        int
	PageSize    int
}

// String renders the backend key.
func (k PageKey) String() string {
	return fmt.Sprintf("catalog:%s:%s:%d:%d", k.Version, k.Fingerprint, k.Page, k.PageSize)
}

// CatalogPage is the cached form of a filtered page. Courses are stored by id and resolved against
// the live catalog on read.
type CatalogPage struct {
	IDs   []string `json:"ids"`
	Total int      `json:"total"`
}

// CacheService caches filtered catalog pages. The cache is best effort: backend failures are
// logged, counted as misses and suspend the cache for a short window.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool

	mu             sync.Mutex
	suspendedUntil time.Time
	now            func() time.Time
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled, now: time.Now}
}

// Enabled indicates whether caching is configured.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

func (s *CacheService) available() bool {
	if !s.Enabled() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.now().Before(s.suspendedUntil)
}

func (s *CacheService) suspend(op string, key string, err error) {
	s.mu.Lock()
	s.suspendedUntil = s.now().Add(cacheSuspendWindow)
	s.mu.Unlock()
	s.logger.Warn("catalog page cache suspended", zap.String("op", op), zap.String("key", key), zap.Duration("window", cacheSuspendWindow), zap.Error(err))
}

// Page looks up a cached page and reports whether it was found.
func (s *CacheService) Page(ctx context.Context, key PageKey) (CatalogPage, bool) {
	var page CatalogPage
	if !s.available() {
		return page, false
	}
	start := time.Now()
	err := s.repo.Get(ctx, key.String(), &page)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	switch {
	case err == nil:
		return page, true
	case errors.Is(err, appErrors.ErrCacheMiss):
	default:
		s.suspend("get", key.String(), err)
	}
	return CatalogPage{}, false
}

// StorePage caches page under key with the default TTL.
func (s *CacheService) StorePage(ctx context.Context, key PageKey, page CatalogPage) {
	if !s.available() {
		return
	}
	start := time.Now()
	err := s.repo.Set(ctx, key.String(), page, s.defaultTTL)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.suspend("set", key.String(), err)
	}
}

// InvalidateCatalog drops every cached page. It runs even while the cache is suspended so stale
// pages never survive a reload.
func (s *CacheService) InvalidateCatalog(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, CatalogCachePattern); err != nil {
		return fmt.Errorf("invalidate catalog pages: %w", err)
	}
	s.logger.Debug("catalog pages invalidated")
	return nil
}
