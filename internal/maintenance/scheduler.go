package maintenance

import (
	"context"
	"log/slog"
	"time"
)

const shutdownCleanupTimeout = 10 * time.Second

// Cleaner removes expired cache entries.
type Cleaner interface {
	Cleanup(ctx context.Context) (int, error)
}

// Scheduler runs cache cleanup on a periodic interval.
// Each tick is independent; a failed run is logged and retried on the next tick.
type Scheduler struct {
	interval time.Duration
	cleaner  Cleaner
}

// NewScheduler creates a cleanup scheduler.
func NewScheduler(interval time.Duration, cleaner Cleaner) *Scheduler {
	return &Scheduler{
		interval: interval,
		cleaner:  cleaner,
	}
}

// Start runs cleanup once immediately, then every interval until ctx is cancelled,
// with a final pass on shutdown.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Scheduler] Starting cache cleanup scheduler", "interval", s.interval)

	s.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			slog.Info("[Scheduler] Stopping (context cancelled)")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownCleanupTimeout)
			defer cancel()

			slog.Info("[Scheduler] Running final cleanup before shutdown...")
			s.runOnce(shutdownCtx)
			slog.Info("[Scheduler] Final cleanup complete")

			return nil
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	start := time.Now()

	removed, err := s.cleaner.Cleanup(ctx)
	if err != nil {
		slog.Error("[Scheduler] Cache cleanup failed", "error", err)
		return
	}

	if removed > 0 {
		slog.Info("[Scheduler] Removed expired cache entries",
			"removed", removed,
			"duration", time.Since(start))
	}
}
