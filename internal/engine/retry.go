package engine

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rshade/ghgcalc/internal/logging"
	"github.com/rshade/ghgcalc/internal/metrics"
	"github.com/rshade/ghgcalc/internal/oracle"
)

// selectFactor asks the oracle for a selection, retrying timeouts with
// backoff. Any other oracle error ends the attempt for this activity.
func (e *Engine) selectFactor(ctx context.Context, req oracle.Request) (*oracle.Selection, error) {
	log := logging.FromContext(ctx)
	attempts := 0

	op := func() (*oracle.Selection, error) {
		attempts++
		start := time.Now()
		sel, err := e.adapter.Select(ctx, req)
		e.metrics.ObserveOracle(oracleOutcome(sel, err), time.Since(start))
		if err != nil && !oracle.IsRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		return sel, err
	}
	notify := func(err error, wait time.Duration) {
		e.metrics.ObserveRetry()
		log.Warn().Ctx(ctx).
			Str("component", "engine").
			Str("operation", "select_factor").
			Int("attempt", attempts).
			Dur("wait", wait).
			Err(err).
			Msg("oracle call failed, retrying")
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(e.newBackOff(), uint64(e.maxRetries)), ctx)
	sel, err := backoff.RetryNotifyWithData(op, policy, notify)
	if err != nil {
		log.Error().Ctx(ctx).
			Str("component", "engine").
			Str("operation", "select_factor").
			Str("standard", string(req.Standard)).
			Str("activity", req.Activity.Label()).
			Int("attempts", attempts).
			Err(err).
			Msg("oracle factor selection failed")
		return nil, err
	}
	return sel, nil
}

func oracleOutcome(sel *oracle.Selection, err error) string {
	switch {
	case err == nil && sel.Cached:
		return metrics.OracleCached
	case err == nil:
		return metrics.OracleOK
	case errors.Is(err, oracle.ErrOracleTimeout):
		return metrics.OracleTimeout
	default:
		return metrics.OracleError
	}
}
