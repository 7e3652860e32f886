package engine

import (
	"context"

	"github.com/rshade/ghgcalc/internal/engine/batch"
	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/logging"
)

const defaultConcurrency = batch.DefaultConcurrency

// CalculateAll computes every request of one project under std, with at
// most the configured number running at once. Outcomes are in request
// order; a failed activity carries its error and leaves the others intact.
// The returned error is non-nil only when ctx is cancelled or reqs is empty.
func (e *Engine) CalculateAll(ctx context.Context, std factors.Standard, reqs []Request) ([]batch.Outcome[Result], error) {
	if len(reqs) == 0 {
		return nil, ErrNoRequests
	}
	p, err := batch.NewProcessor[Request, Result](batch.DefaultBatchSize, e.concurrency)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	p.WithProgressCallback(func(s batch.ProgressSnapshot) {
		log.Debug().Ctx(ctx).
			Str("component", "engine").
			Str("operation", "calculate_all").
			Int("processed", s.ProcessedItems).
			Int("failed", s.FailedItems).
			Int("total", s.TotalItems).
			Msg("batch progress")
	})

	out, err := p.Run(ctx, reqs, func(ctx context.Context, _ int, req Request) (Result, error) {
		return e.Calculate(ctx, std, req)
	})

	failed := 0
	for _, o := range out {
		if o.Err != nil {
			failed++
		}
	}
	log.Info().Ctx(ctx).
		Str("component", "engine").
		Str("standard", string(std)).
		Int("activities", len(reqs)).
		Int("failed", failed).
		Msg("project calculated")
	return out, err
}
