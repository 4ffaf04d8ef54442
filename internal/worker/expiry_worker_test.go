package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mockExpirer struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, batchSize int) (int, error)
}

func (m *mockExpirer) ExpireOverdue(ctx context.Context, batchSize int) (int, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(ctx, batchSize)
	}
	return 0, nil
}

func (m *mockExpirer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestExpiryWorker_SweepRecordsStats(t *testing.T) {
	expirer := &mockExpirer{
		fn: func(ctx context.Context, batchSize int) (int, error) {
			assert.Equal(t, 50, batchSize)
			return 3, nil
		},
	}
	w := NewExpiryWorker(expirer, &ExpiryWorkerConfig{Interval: time.Hour, BatchSize: 50})

	w.Sweep(context.Background())

	stats := w.Stats()
	assert.Equal(t, int64(1), stats.Sweeps)
	assert.Equal(t, int64(3), stats.Expired)
	assert.Equal(t, int64(0), stats.FailedSweeps)
	assert.False(t, stats.LastSweepAt.IsZero())
}

func TestExpiryWorker_SweepFailureCounted(t *testing.T) {
	expirer := &mockExpirer{
		fn: func(ctx context.Context, batchSize int) (int, error) {
			return 0, errors.New("database down")
		},
	}
	w := NewExpiryWorker(expirer, nil)

	w.Sweep(context.Background())
	w.Sweep(context.Background())

	stats := w.Stats()
	assert.Equal(t, int64(2), stats.Sweeps)
	assert.Equal(t, int64(2), stats.FailedSweeps)
}

func TestExpiryWorker_ConcurrentSweepsDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	expirer := &mockExpirer{
		fn: func(ctx context.Context, batchSize int) (int, error) {
			close(started)
			<-release
			return 0, nil
		},
	}
	w := NewExpiryWorker(expirer, nil)

	done := make(chan struct{})
	go func() {
		w.Sweep(context.Background())
		close(done)
	}()
	<-started

	// Runs while the first sweep is blocked, must be dropped
	w.Sweep(context.Background())

	close(release)
	<-done

	assert.Equal(t, 1, expirer.callCount())
	assert.Equal(t, int64(1), w.Stats().Sweeps)
}

func TestExpiryWorker_StartRunsImmediateSweepAndStops(t *testing.T) {
	expirer := &mockExpirer{}
	w := NewExpiryWorker(expirer, &ExpiryWorkerConfig{Interval: time.Hour})

	w.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for expirer.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("worker never ran its initial sweep")
		case <-time.After(10 * time.Millisecond):
		}
	}

	w.Stop()
	assert.Equal(t, int64(1), w.Stats().Sweeps)
}
