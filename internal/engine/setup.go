package engine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rshade/ghgcalc/internal/cache"
	"github.com/rshade/ghgcalc/internal/config"
	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/lca"
	"github.com/rshade/ghgcalc/internal/logging"
	"github.com/rshade/ghgcalc/internal/oracle"
)

// FromConfig builds an Engine from cfg: the factor dataset, the GWP
// report, the oracle with its reply cache, and the reconciliation, retry,
// LCA and concurrency settings. opts are applied last.
func FromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Engine, error) {
	log := logging.FromContext(ctx)

	store, err := factors.LoadStore(ctx, cfg.Factors.Path)
	if err != nil {
		return nil, err
	}
	gwp, err := factors.GWPTableFor(cfg.Factors.GWPReport)
	if err != nil {
		return nil, err
	}
	mode, err := lca.ParseFormulaMode(cfg.LCA.FormulaMode)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithTolerance(cfg.Reconciliation.Tolerance),
		WithMaxRetries(cfg.Oracle.MaxRetries),
		WithConcurrency(cfg.Engine.Concurrency),
		WithLCA(mode, cfg.LCA.FossilBaseline),
	}

	adapter, err := newAdapter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if adapter != nil {
		base = append(base, WithOracle(adapter))
	}

	log.Debug().Ctx(ctx).
		Str("component", "engine").
		Str("operation", "from_config").
		Int("factors", store.Len()).
		Str("gwp_report", gwp.Report()).
		Str("oracle", cfg.Oracle.Provider).
		Str("formula_mode", string(mode)).
		Msg("engine configured")
	return New(store, gwp, append(base, opts...)...), nil
}

func newAdapter(ctx context.Context, cfg *config.Config) (*oracle.Adapter, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Oracle.Provider)) {
	case "", config.OracleProviderNone:
		return nil, nil //nolint:nilnil // No oracle configured.
	case config.OracleProviderGenAI:
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Oracle.Provider)
	}

	key := os.Getenv(cfg.Oracle.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, cfg.Oracle.APIKeyEnv)
	}
	o, err := oracle.NewGenAI(ctx, key, cfg.Oracle.Model)
	if err != nil {
		return nil, err
	}

	opts := []oracle.AdapterOption{oracle.WithModel(cfg.Oracle.Model)}
	if cfg.Oracle.TimeoutSeconds > 0 {
		opts = append(opts, oracle.WithTimeout(cfg.Oracle.Timeout()))
	}
	if cfg.Cache.Enabled && cfg.Cache.Directory != "" {
		store, cacheErr := cache.NewFileStore(cfg.Cache.Directory, true, cfg.Cache.TTL())
		if cacheErr != nil {
			logging.FromContext(ctx).Warn().Ctx(ctx).
				Str("component", "engine").
				Str("directory", cfg.Cache.Directory).
				Err(cacheErr).
				Msg("oracle reply cache unavailable, continuing without it")
		} else {
			opts = append(opts, oracle.WithCache(store))
		}
	}
	return oracle.NewAdapter(o, opts...), nil
}
