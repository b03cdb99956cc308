package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"room-booking-backend/internal/store"
)

// Sweep periodically deletes expired holds. It is housekeeping only:
// reads filter expired holds out and the write path reclaims them, so
// correctness never depends on the sweep running.
type Sweep struct {
	store  store.Store
	logger *zap.Logger
}

// NewSweep creates a sweep over the given store.
func NewSweep(s store.Store, logger *zap.Logger) *Sweep {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweep{store: s, logger: logger}
}

// Run performs one sweep pass.
func (s *Sweep) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.store.DeleteExpiredHolds(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Warn("expired hold sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("swept expired holds", zap.Int64("deleted", n))
	}
}

// Schedule registers the sweep on a cron runner at the given interval
// and starts it. The returned cron should be stopped on shutdown.
func (s *Sweep) Schedule(interval time.Duration) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), s.Run); err != nil {
		return nil, fmt.Errorf("schedule hold sweep: %w", err)
	}
	c.Start()
	return c, nil
}
