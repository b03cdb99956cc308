package cleanup

import (
	"context"

	"go.uber.org/zap"

	"room-booking-backend/internal/store"
)

// WorkerPool deletes retired holds off the request path. Deletion is
// best-effort housekeeping: an undeleted hold is reclaimed by expiry,
// so failures are logged and never surfaced to the caller.
type WorkerPool struct {
	size   int
	jobs   chan int64
	store  store.Store
	logger *zap.Logger
}

// NewWorkerPool creates a pool with the given number of workers.
func NewWorkerPool(size int, s store.Store, logger *zap.Logger) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{
		size:   size,
		jobs:   make(chan int64, size*4),
		store:  s,
		logger: logger,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.logger.Debug("cleanup worker started", zap.Int("worker", id))
	for {
		select {
		case holdID := <-wp.jobs:
			if err := wp.store.DeleteHold(ctx, holdID); err != nil {
				wp.logger.Warn("best-effort hold delete failed",
					zap.Int64("hold_id", holdID), zap.Error(err))
			}
		case <-ctx.Done():
			wp.logger.Debug("cleanup worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// Dispatch queues a hold for deletion without ever blocking the
// request path. A full queue drops the job; the expiry sweep will
// pick the hold up instead.
func (wp *WorkerPool) Dispatch(holdID int64) {
	select {
	case wp.jobs <- holdID:
	default:
		wp.logger.Warn("cleanup queue full, leaving hold to the sweep", zap.Int64("hold_id", holdID))
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int64 {
	return wp.jobs
}
