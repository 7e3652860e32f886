package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rshade/ghgcalc/internal/cache"
	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/logging"
)

// DefaultTimeout bounds one oracle call when the caller sets none.
const DefaultTimeout = 30 * time.Second

// Adapter turns an Oracle into factor selections.
type Adapter struct {
	oracle  Oracle
	model   string
	timeout time.Duration
	cache   *cache.FileStore
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) AdapterOption {
	return func(a *Adapter) { a.timeout = d }
}

// WithCache stores successful replies in store, keyed by model and prompt.
func WithCache(store *cache.FileStore) AdapterOption {
	return func(a *Adapter) { a.cache = store }
}

// WithModel names the model behind the oracle for cache keys and logs.
func WithModel(model string) AdapterOption {
	return func(a *Adapter) { a.model = model }
}

// NewAdapter wraps o.
func NewAdapter(o Oracle, opts ...AdapterOption) *Adapter {
	a := &Adapter{oracle: o, timeout: DefaultTimeout}
	if m, ok := o.(interface{ Model() string }); ok {
		a.model = m.Model()
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Select asks the oracle to choose among req.Candidates. It calls the
// oracle at most once; retrying on ErrOracleTimeout is the caller's job.
func (a *Adapter) Select(ctx context.Context, req Request) (*Selection, error) {
	if len(req.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	log := logging.FromContext(ctx)
	prompt := BuildPrompt(req)
	key := cache.Key(a.model, prompt)

	if text, ok := a.cached(ctx, key); ok {
		sel, err := resolve(text, req.Candidates)
		if err == nil {
			sel.Cached = true
			return sel, nil
		}
		if delErr := a.cache.Delete(key); delErr != nil {
			log.Debug().Ctx(ctx).Str("component", "oracle").Err(delErr).Msg("oracle cache delete failed")
		}
	}

	text, err := a.call(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrOracleEmptyResponse
	}

	sel, err := resolve(text, req.Candidates)
	if err != nil {
		log.Debug().Ctx(ctx).
			Str("component", "oracle").
			Str("reply", truncate(text, 500)).
			Err(err).
			Msg("unusable oracle reply")
		return nil, err
	}

	if a.cache.IsEnabled() {
		if cacheErr := a.cache.Set(key, a.model, text); cacheErr != nil {
			log.Warn().Ctx(ctx).Str("component", "oracle").Err(cacheErr).Msg("could not cache oracle reply")
		}
	}

	log.Debug().Ctx(ctx).
		Str("component", "oracle").
		Str("factor_id", sel.ChosenFactorID).
		Str("gas", string(sel.GasType)).
		Msg("oracle selected factor")
	return sel, nil
}

type completion struct {
	text string
	err  error
}

// call runs one Complete under the adapter's deadline. The deadline holds
// even when the oracle ignores ctx, and a reply arriving after it is
// dropped.
func (a *Adapter) call(ctx context.Context, prompt string) (string, error) {
	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	done := make(chan completion, 1)
	go func() {
		text, err := a.oracle.Complete(callCtx, prompt)
		done <- completion{text: text, err: err}
	}()

	var c completion
	select {
	case c = <-done:
	case <-callCtx.Done():
		c.err = callCtx.Err()
	}

	if ctxErr := callCtx.Err(); ctxErr != nil {
		if c.err == nil {
			c.err = ctxErr
		}
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s: %w", ErrOracleTimeout, a.timeout, c.err)
		}
		return "", fmt.Errorf("oracle call: %w", c.err)
	}
	if c.err != nil {
		if errors.Is(c.err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s: %w", ErrOracleTimeout, a.timeout, c.err)
		}
		return "", fmt.Errorf("oracle call: %w", c.err)
	}
	return c.text, nil
}

func (a *Adapter) cached(ctx context.Context, key string) (string, bool) {
	if !a.cache.IsEnabled() {
		return "", false
	}
	entry, err := a.cache.Get(key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) && !errors.Is(err, cache.ErrExpired) {
			logging.FromContext(ctx).Debug().Ctx(ctx).Str("component", "oracle").Err(err).Msg("oracle cache read failed")
		}
		return "", false
	}
	return entry.Reply, true
}

// resolve parses text and matches the chosen identifier to a candidate, by
// ID first and then by exact name.
func resolve(text string, candidates []factors.EmissionFactor) (*Selection, error) {
	reply, err := ParseReply(text)
	if err != nil {
		return nil, err
	}

	f, ok := factors.FindByID(candidates, reply.ChosenFactorID)
	if !ok {
		f, ok = factors.FindByName(candidates, reply.ChosenFactorID)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrOracleFactorNotFound, reply.ChosenFactorID)
	}

	gas := f.GasType
	if reply.GasType != "" {
		gas = factors.NormalizeGas(reply.GasType)
	}

	return &Selection{
		ChosenFactorID: f.ID,
		Factor:         f,
		GasType:        gas,
		EmissionValue:  reply.EmissionValue,
		CO2Equivalent:  reply.CO2Equivalent,
		Unit:           reply.Unit,
		Formula:        reply.Formula,
		Explanation:    reply.Explanation,
		PerGas:         reply.PerGas,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
