package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Pool bounds query fan-out and paces request bursts. Workers pull queries
// independently; the per-query function owns everything for that query, so
// only the sinks and counters behind it need mutual exclusion.
type Pool struct {
	Workers  int
	Interval time.Duration
}

// Run feeds every query through fn on a bounded worker pool. Per-query
// failures are logged and never stop the run; Run only returns early when
// the context is cancelled.
func (p Pool) Run(ctx context.Context, queries []string, logger *slog.Logger, fn func(ctx context.Context, query string) error) error {
	workers := p.Workers
	if workers <= 0 {
		workers = 3
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if p.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(p.Interval), 1)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, query := range queries {
		query := query
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			if err := fn(ctx, query); err != nil {
				if ctx.Err() != nil {
					return err
				}
				if logger != nil {
					logger.Error("query processing failed", "query", query, "error", err)
				}
			}
			return nil
		})
	}

	return g.Wait()
}
