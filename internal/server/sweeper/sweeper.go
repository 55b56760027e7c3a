// Package sweeper runs periodic cleanup of expired session state.
package sweeper

import (
	"context"
	"time"

	"github.com/beatstream/accounts/internal/logging"
)

// Purger deletes expired rows and reports how many were removed.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Sweeper calls its purgers on a fixed interval until the context is
// cancelled. Purge failures are logged and the loop keeps going.
type Sweeper struct {
	interval time.Duration
	purgers  []Purger
	logger   logging.Logger
}

func New(interval time.Duration, logger logging.Logger, purgers ...Purger) *Sweeper {
	return &Sweeper{interval: interval, purgers: purgers, logger: logger}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	for _, p := range s.purgers {
		n, err := p.PurgeExpired(ctx)
		if err != nil {
			s.logger.Error(ctx, "purge failed", "error", err)
			continue
		}
		if n > 0 {
			s.logger.Info(ctx, "purged expired rows", "count", n)
		}
	}
}
