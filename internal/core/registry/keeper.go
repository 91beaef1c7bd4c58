package registry

import (
	"context"
	"time"

	"github.com/LeJamon/goIAZO/internal/core/sale"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Summaries reads the sales at positions [from, from+limit) concurrently.
// The result is ordered by position and clipped to Count.
func (r *Registry) Summaries(ctx context.Context, from, limit uint64) ([]sale.Summary, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}
	if from >= count || limit == 0 {
		return nil, nil
	}
	end := from + limit
	if end > count || end < from {
		end = count
	}

	out := make([]sale.Summary, end-from)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.summaryConcurrency)
	for i := from; i < end; i++ {
		i := i
		g.Go(func() error {
			id, err := r.At(gctx, i)
			if err != nil {
				return err
			}
			s, err := r.engine.Summary(gctx, id)
			if err != nil {
				return err
			}
			out[i-from] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FinalizeReady finalizes every sale that has resolved to success but has
// not generated liquidity yet. It returns the number of sales finalized.
func (r *Registry) FinalizeReady(ctx context.Context) (int, error) {
	r.metrics.keeperRuns.Inc()
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}

	finalized := 0
	for i := uint64(0); i < count; i++ {
		if err := ctx.Err(); err != nil {
			return finalized, err
		}
		id, err := r.At(ctx, i)
		if err != nil {
			return finalized, err
		}
		s, err := r.engine.Summary(ctx, id)
		if err != nil {
			return finalized, err
		}
		if s.State != sale.StateSuccess || s.Status.LPGenerationComplete {
			continue
		}
		if _, err := r.engine.Finalize(ctx, id); err != nil {
			r.log.Warn("keeper failed to finalize sale", zap.Stringer("sale", id), zap.Error(err))
			continue
		}
		finalized++
	}
	return finalized, nil
}

// RunKeeper calls FinalizeReady every interval until ctx is done.
func (r *Registry) RunKeeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.log.Info("keeper started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			r.log.Info("keeper stopped")
			return
		case <-ticker.C:
			n, err := r.FinalizeReady(ctx)
			if err != nil && ctx.Err() == nil {
				r.log.Error("keeper pass failed", zap.Error(err))
			}
			if n > 0 {
				r.log.Info("keeper finalized sales", zap.Int("count", n))
			}
		}
	}
}
