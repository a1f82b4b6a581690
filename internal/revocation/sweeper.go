package revocation

import (
	"context"
	"log/slog"
	"time"
)

type Sweeper struct {
	Stores   map[string]Store
	Interval time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// Run sweeps every store once per Interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

func (s *Sweeper) SweepOnce(ctx context.Context) int {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	total := 0
	for name, store := range s.Stores {
		removed, err := store.Sweep(ctx, now())
		if err != nil {
			l.Error("revocation_sweep_failed", "store", name, "error", err)
			continue
		}
		if removed > 0 {
			l.Info("revocation_sweep", "store", name, "removed", removed)
		}
		total += removed
	}
	return total
}
