package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
)

type blockingLoader struct {
	release chan struct{}
	calls   int32
}

func (l *blockingLoader) Load(ctx context.Context) error {
	atomic.AddInt32(&l.calls, 1)
	select {
	case <-l.release:
	case <-ctx.Done():
	}
	return nil
}

func (l *blockingLoader) Version() string { return "v1" }

type countingLoader struct {
	calls    int32
	failures int32
}

func (l *countingLoader) Load(context.Context) error {
	n := atomic.AddInt32(&l.calls, 1)
	if n <= atomic.LoadInt32(&l.failures) {
		return errors.New("feed unreachable")
	}
	return nil
}

func (l *countingLoader) Version() string { return "v1" }

func TestRefreshHonoursCooldown(t *testing.T) {
	loader := &countingLoader{}
	svc := NewRefreshService(loader, RefreshConfig{Cooldown: 15 * time.Minute}, zap.NewNop())
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	resp, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, "v1", resp.Version)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&loader.calls) == 1 && !svc.InFlight() }, time.Second, 10*time.Millisecond)

	now = now.Add(5 * time.Minute)
	_, err = svc.Refresh(ctx)
	assert.True(t, errors.Is(err, appErrors.ErrRefreshCooldown))
	assert.Equal(t, 10*time.Minute, appErrors.FromError(err).RetryAfter)

	now = now.Add(11 * time.Minute)
	_, err = svc.Refresh(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&loader.calls) == 2 }, time.Second, 10*time.Millisecond)
}

func TestRefreshRetriesFailedLoads(t *testing.T) {
	loader := &countingLoader{failures: 2}
	svc := NewRefreshService(loader, RefreshConfig{Retries: 3, RetryDelay: 5 * time.Millisecond}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	_, err := svc.Refresh(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&loader.calls) == 3 }, 2*time.Second, 10*time.Millisecond)
}

func TestRefreshRequiresStartedQueue(t *testing.T) {
	svc := NewRefreshService(&countingLoader{}, RefreshConfig{Cooldown: time.Hour}, zap.NewNop())
	_, err := svc.Refresh(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrInternal))

	svc.Start(context.Background())
	defer svc.Stop()
	_, err = svc.Refresh(context.Background())
	assert.NoError(t, err, "a failed enqueue does not start the cooldown")
}

func TestRefreshCoalescesInFlightReload(t *testing.T) {
	loader := &blockingLoader{release: make(chan struct{})}
	svc := NewRefreshService(loader, RefreshConfig{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	first, err := svc.Refresh(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&loader.calls) == 1 }, time.Second, 10*time.Millisecond)

	second, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.JobID, second.JobID)
	assert.True(t, svc.InFlight())

	close(loader.release)
	require.Eventually(t, func() bool { return !svc.InFlight() }, time.Second, 10*time.Millisecond)

	third, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.JobID, third.JobID)
}
