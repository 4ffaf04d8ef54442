package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atlastrips/travel-booking/internal/logger"
)

// OverdueExpirer expires overdue cash bookings and reports how many
type OverdueExpirer interface {
	ExpireOverdue(ctx context.Context, batchSize int) (int, error)
}

// ExpiryWorkerConfig holds worker tuning
type ExpiryWorkerConfig struct {
	Interval  time.Duration
	BatchSize int
}

// ExpiryWorkerStats tracks worker activity
type ExpiryWorkerStats struct {
	Sweeps       int64
	Expired      int64
	FailedSweeps int64
	LastSweepAt  time.Time
}

// ExpiryWorker periodically releases bookings whose cash payment window
// closed. One sweep runs at a time; a slow sweep skips ticks instead of
// stacking.
type ExpiryWorker struct {
	expirer  OverdueExpirer
	interval time.Duration
	batch    int

	mu       sync.Mutex
	stats    ExpiryWorkerStats
	sweeping bool

	stopCh  chan struct{}
	stopped sync.Once
	wg      sync.WaitGroup
}

// NewExpiryWorker creates a new expiry worker
func NewExpiryWorker(expirer OverdueExpirer, cfg *ExpiryWorkerConfig) *ExpiryWorker {
	interval := 30 * time.Minute
	batch := 100
	if cfg != nil {
		if cfg.Interval > 0 {
			interval = cfg.Interval
		}
		if cfg.BatchSize > 0 {
			batch = cfg.BatchSize
		}
	}
	return &ExpiryWorker{
		expirer:  expirer,
		interval: interval,
		batch:    batch,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop. The first sweep runs immediately so a
// restart does not wait a full interval to catch up.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		logger.Get().Info("expiry worker started",
			zap.Duration("interval", w.interval),
			zap.Int("batch_size", w.batch),
		)

		w.Sweep(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.Sweep(ctx)
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop signals the loop and waits for an in-flight sweep to finish
func (w *ExpiryWorker) Stop() {
	w.stopped.Do(func() {
		close(w.stopCh)
	})
	w.wg.Wait()
	logger.Get().Info("expiry worker stopped")
}

// Sweep runs one expiry pass. Re-entrant calls while a sweep is running
// are dropped.
func (w *ExpiryWorker) Sweep(ctx context.Context) {
	w.mu.Lock()
	if w.sweeping {
		w.mu.Unlock()
		return
	}
	w.sweeping = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.sweeping = false
		w.mu.Unlock()
	}()

	expired, err := w.expirer.ExpireOverdue(ctx, w.batch)

	w.mu.Lock()
	w.stats.Sweeps++
	w.stats.LastSweepAt = time.Now()
	if err != nil {
		w.stats.FailedSweeps++
	}
	w.stats.Expired += int64(expired)
	w.mu.Unlock()

	if err != nil {
		logger.Get().Error("expiry sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		logger.Get().Info("expiry sweep released bookings", zap.Int("expired", expired))
	}
}

// Stats returns a snapshot of worker activity
func (w *ExpiryWorker) Stats() ExpiryWorkerStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}
