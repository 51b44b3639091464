package lifecycle

import (
	"context"
	"time"

	"session-insight-be/internal/pkg/logger"
)

// Purger is a store that can drop every record expired at now.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// PurgeFunc observes a completed sweep that removed at least one record.
type PurgeFunc func(ctx context.Context, collection string, purged int64)

// Sweeper periodically purges expired records from stores that cannot
// expire them natively. Reads never depend on it: stores already hide
// expired records, the sweep only reclaims space.
type Sweeper struct {
	collection string
	purger     Purger
	interval   time.Duration
	clock      Clock
	logger     logger.ILogger
	onPurge    []PurgeFunc
}

func NewSweeper(collection string, purger Purger, interval time.Duration, clock Clock, log logger.ILogger, onPurge ...PurgeFunc) *Sweeper {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Sweeper{
		collection: collection,
		purger:     purger,
		interval:   interval,
		clock:      clock,
		logger:     log,
		onPurge:    onPurge,
	}
}

// SweepOnce runs a single purge pass.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	purged, err := s.purger.PurgeExpired(ctx, s.clock.Now())
	if err != nil {
		s.logger.Error("LIFECYCLE", "Sweep failed", map[string]interface{}{
			"collection": s.collection,
			"error":      err.Error(),
		})
		return 0, err
	}

	if purged > 0 {
		s.logger.Info("LIFECYCLE", "Expired records purged", map[string]interface{}{
			"collection": s.collection,
			"purged":     purged,
		})
		for _, fn := range s.onPurge {
			fn(ctx, s.collection, purged)
		}
	}
	return purged, nil
}

// Run sweeps every interval until ctx is cancelled. Sweep errors are
// logged and do not stop the loop.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = s.SweepOnce(ctx)
		}
	}
}
