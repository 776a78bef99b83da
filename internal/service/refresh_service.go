package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/dto"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
	"github.com/noah-isme/course-planner-api/pkg/jobs"
)

const (
	refreshJobManual    = "catalog.refresh.manual"
	refreshJobScheduled = "catalog.refresh.scheduled"
	refreshJobKey       = "catalog"
)

// CatalogLoader reloads the catalog.
type CatalogLoader interface {
	Load(ctx context.Context) error
	Version() string
}

// RefreshConfig tunes catalog refreshes.
type RefreshConfig struct {
	Cooldown   time.Duration
	Retries    int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// RefreshService runs catalog reloads on the job queue, periodically and on demand.
type RefreshService struct {
	loader   CatalogLoader
	queue    *jobs.Queue
	cooldown time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewRefreshService constructs the service and its queue. Call Start before Refresh.
func NewRefreshService(loader CatalogLoader, cfg RefreshConfig, logger *zap.Logger) *RefreshService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Cooldown < 0 {
		cfg.Cooldown = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	s := &RefreshService{
		loader:   loader,
		cooldown: cfg.Cooldown,
		timeout:  cfg.Timeout,
		logger:   logger,
		now:      time.Now,
	}
	s.queue = jobs.NewQueue("catalog-refresh", s.handle, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 4,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Backoff:    true,
		OnExhausted: func(job jobs.Job, err error) {
			logger.Error("catalog refresh abandoned", zap.String("job_id", job.ID), zap.Int("attempts", job.Attempt), zap.Error(err))
		},
		Logger: logger,
	})
	return s
}

// Start launches the refresh worker.
func (s *RefreshService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for the worker to exit.
func (s *RefreshService) Stop() {
	s.queue.Stop()
}

// Refresh queues an on-demand reload. Requests within the cooldown of the previous accepted request
// fail with ErrRefreshCooldown. A reload already in flight absorbs the request and its job id is
// returned.
func (s *RefreshService) Refresh(ctx context.Context) (*dto.RefreshResponse, error) {
	s.mu.Lock()
	now := s.now()
	if !s.last.IsZero() && now.Sub(s.last) < s.cooldown {
		wait := s.cooldown - now.Sub(s.last)
		s.mu.Unlock()
		return nil, appErrors.WithRetryAfter(appErrors.ErrRefreshCooldown, wait)
	}
	s.last = now
	s.mu.Unlock()

	job := jobs.Job{ID: uuid.NewString(), Type: refreshJobManual, Key: refreshJobKey}
	err := s.queue.Enqueue(job)
	var dup *jobs.DuplicateError
	if errors.As(err, &dup) {
		s.logger.Info("catalog refresh already in flight", zap.String("job_id", dup.ExistingID))
		return &dto.RefreshResponse{JobID: dup.ExistingID, Version: s.loader.Version()}, nil
	}
	if err != nil {
		s.mu.Lock()
		s.last = time.Time{}
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue catalog refresh")
	}
	s.logger.Info("catalog refresh queued", zap.String("job_id", job.ID))
	return &dto.RefreshResponse{JobID: job.ID, Version: s.loader.Version()}, nil
}

// InFlight reports whether a reload is queued or running.
func (s *RefreshService) InFlight() bool {
	return s.queue.InFlight(refreshJobKey)
}

// Run queues a scheduled reload every interval until ctx is cancelled. Scheduled reloads ignore
// the cooldown.
func (s *RefreshService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job := jobs.Job{ID: uuid.NewString(), Type: refreshJobScheduled, Key: refreshJobKey}
			err := s.queue.Enqueue(job)
			switch {
			case errors.Is(err, jobs.ErrDuplicate):
				s.logger.Debug("scheduled catalog refresh coalesced", zap.Error(err))
			case err != nil:
				s.logger.Warn("scheduled catalog refresh skipped", zap.Error(err))
			}
		}
	}
}

func (s *RefreshService) handle(ctx context.Context, job jobs.Job) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := time.Now()
	if err := s.loader.Load(ctx); err != nil {
		return err
	}
	s.logger.Info("catalog refreshed",
		zap.String("job_id", job.ID),
		zap.String("type", job.Type),
		zap.String("version", s.loader.Version()),
		zap.Duration("duration", time.Since(start)))
	return nil
}
