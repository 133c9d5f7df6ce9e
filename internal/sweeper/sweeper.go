package sweeper

import (
	"context"
	"log/slog"
	"time"
)

type expirer interface {
	SweepExpired(ctx context.Context) (int, error)
}

// New - returns a task for an errgroup that calls SweepExpired every interval
// until ctx is done. Sweep failures are logged and do not stop the loop.
func New(ctx context.Context, logger *slog.Logger, rooms expirer, interval time.Duration) func() error {
	log := logger.With("component", "sweeper")

	return func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info("sweeper started", "interval", interval.String())

		for {
			select {
			case <-ctx.Done():
				log.Info("sweeper stopped")
				return nil
			case <-ticker.C:
				if _, err := rooms.SweepExpired(ctx); err != nil {
					log.Error("failed to sweep rooms", "error", err)
				}
			}
		}
	}
}
