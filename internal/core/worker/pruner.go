package worker

import (
	"context"
	"log/slog"
	"time"
)

// SessionPruner deletes payment sessions not updated since threshold.
type SessionPruner interface {
	DeleteOlderThan(ctx context.Context, threshold time.Time) (int, error)
}

// Pruner deletes old payment sessions based on a retention period.
type Pruner struct {
	retention time.Duration
	repo      SessionPruner
	log       *slog.Logger
}

// NewPruner creates a new Pruner worker.
func NewPruner(retention time.Duration, repo SessionPruner, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		retention: retention,
		repo:      repo,
		log:       logger,
	}
}

// Interval is how often the pruner checks: 10% of the retention period,
// clamped to [1m, 1h].
func (p *Pruner) Interval() time.Duration {
	interval := min(p.retention/10, 1*time.Hour)
	return max(interval, 1*time.Minute)
}

// Start runs the pruner loop until ctx is done.
func (p *Pruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		return // Retention disabled
	}

	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()

	// Initial prune
	p.Prune(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			p.Prune(ctx, now)
		}
	}
}

// Prune removes sessions older than the retention period as seen from now.
func (p *Pruner) Prune(ctx context.Context, now time.Time) int {
	n, err := p.repo.DeleteOlderThan(ctx, now.Add(-p.retention))
	if err != nil {
		p.log.Error("Failed to prune payment sessions", "error", err)
		return 0
	}
	if n > 0 {
		p.log.Debug("Pruned payment sessions", "count", n)
	}
	return n
}
