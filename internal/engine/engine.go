package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/lca"
	"github.com/rshade/ghgcalc/internal/logging"
	"github.com/rshade/ghgcalc/internal/metrics"
	"github.com/rshade/ghgcalc/internal/oracle"
	"github.com/rshade/ghgcalc/internal/reconcile"
	"github.com/rshade/ghgcalc/internal/tiered"
)

// DefaultMaxRetries is how often a timed-out oracle call is retried.
const DefaultMaxRetries = 3

// autoSuffix marks methods whose factor was picked without an oracle.
const autoSuffix = "_AUTO"

// Engine calculates activities for every supported standard.
type Engine struct {
	store   *factors.Store
	gwp     factors.GWPTable
	adapter *oracle.Adapter
	recon   *reconcile.Calculator
	tiered  *tiered.Calculator
	metrics metrics.Recorder

	tolerance      float64
	maxRetries     int
	newBackOff     func() backoff.BackOff
	concurrency    int
	lcaMode        lca.FormulaMode
	fossilBaseline float64
	now            func() time.Time

	pathways sync.Map // lca.FormulaMode -> *lca.Pathway
}

// Option configures an Engine.
type Option func(*Engine)

// WithOracle enables oracle factor selection. A nil adapter disables it.
func WithOracle(a *oracle.Adapter) Option {
	return func(e *Engine) { e.adapter = a }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.metrics = r
		}
	}
}

// WithMaxRetries sets how often a timed-out oracle call is retried.
func WithMaxRetries(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxRetries = n
		}
	}
}

// WithBackOff replaces the exponential retry policy. Tests use
// backoff.ZeroBackOff.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(e *Engine) {
		if newBackOff != nil {
			e.newBackOff = newBackOff
		}
	}
}

// WithConcurrency bounds how many activities CalculateAll runs at once.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithTolerance sets the reconciliation discrepancy threshold.
func WithTolerance(tol float64) Option {
	return func(e *Engine) {
		if tol > 0 {
			e.tolerance = tol
		}
	}
}

// WithLCA sets the default formula mode and fossil comparator for
// CalculateLCA.
func WithLCA(mode lca.FormulaMode, fossilBaseline float64) Option {
	return func(e *Engine) {
		if mode != "" {
			e.lcaMode = mode
		}
		if fossilBaseline > 0 {
			e.fossilBaseline = fossilBaseline
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an Engine over store converting with gwp.
func New(store *factors.Store, gwp factors.GWPTable, opts ...Option) *Engine {
	e := &Engine{
		store:          store,
		gwp:            gwp,
		metrics:        metrics.Nop{},
		tolerance:      reconcile.DefaultTolerance,
		maxRetries:     DefaultMaxRetries,
		newBackOff:     defaultBackOff,
		concurrency:    defaultConcurrency,
		lcaMode:        lca.FormulaSpreadsheet,
		fossilBaseline: lca.DefaultFossilBaseline,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.recon = reconcile.New(gwp, reconcile.WithTolerance(e.tolerance))
	e.tiered = tiered.New(store, gwp)
	return e
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	return b
}

// Store returns the factor store the engine calculates with.
func (e *Engine) Store() *factors.Store {
	return e.store
}

// GWPTable returns the GWP table the engine converts with.
func (e *Engine) GWPTable() factors.GWPTable {
	return e.gwp
}

// OracleEnabled reports whether factor selection uses the oracle.
func (e *Engine) OracleEnabled() bool {
	return e.adapter != nil
}

// Calculate computes one activity under std.
func (e *Engine) Calculate(ctx context.Context, std factors.Standard, req Request) (Result, error) {
	start := time.Now()
	res, err := e.calculate(ctx, std, req)
	e.metrics.ObserveCalculation(string(std), err == nil, time.Since(start))
	if err != nil {
		return Result{}, err
	}
	if res.DiscrepancyFlag {
		e.metrics.ObserveDiscrepancy(string(std))
	}
	return res, nil
}

func (e *Engine) calculate(ctx context.Context, std factors.Standard, req Request) (Result, error) {
	if err := req.Activity.Validate(); err != nil {
		return Result{}, err
	}

	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("component", "engine").
		Str("operation", "calculate").
		Str("standard", string(std)).
		Str("activity", req.Activity.Label()).
		Str("pinned_factor", req.PinnedFactor).
		Msg("starting calculation")

	var (
		res Result
		err error
	)
	switch std {
	case factors.IPCC2006:
		res, err = e.calculateTiered(ctx, req)
	case factors.DEFRA, factors.ISO14064, factors.ISCCPlus:
		res, err = e.calculateDirect(ctx, std, req)
	default:
		return Result{}, fmt.Errorf("%w: %q", factors.ErrUnknownStandard, std)
	}
	if err != nil {
		return Result{}, err
	}

	res.ID = logging.NewID()
	res.Standard = std
	res.Activity = req.Activity
	res.CalculatedAt = e.now().UTC()
	if std == factors.ISO14064 {
		cat := ClassifyISO(req.Activity.Category, res.FactorUsed.Categories)
		res.ISOCategory = int(cat)
		res.ISOCategoryName = cat.String()
	}
	return res, nil
}

// calculateTiered lets the oracle pick among the tier-eligible IPCC
// candidates, then computes with the tiered formulas.
func (e *Engine) calculateTiered(ctx context.Context, req Request) (Result, error) {
	in := tiered.Input{
		Activity:     req.Activity,
		Tier:         req.Tier,
		HeatingValue: req.HeatingValue,
		GasType:      req.GasType,
		FactorID:     req.PinnedFactor,
	}

	var sel *oracle.Selection
	if req.PinnedFactor == "" && e.adapter != nil {
		gas := req.GasType
		if gas == "" {
			g, ok, err := tiered.DefaultGas(req.Activity.Category)
			if err != nil {
				return Result{}, err
			}
			if ok {
				gas = g
			}
		}
		cands := eligibleTier(e.tiered.Candidates(req.Activity.StandardYear, req.Activity.Category, gas), req.Tier)
		if len(cands) == 0 {
			return Result{}, fmt.Errorf("%w: %s category %q year %d gas %q",
				factors.ErrFactorNotFound, factors.IPCC2006,
				req.Activity.Category, req.Activity.StandardYear, gas)
		}

		shown := req.Activity
		if tiered.IsEnergySector(shown.Category) && req.HeatingValue > 0 {
			shown.Quantity *= req.HeatingValue
			shown.Unit = "GJ"
		}
		var err error
		sel, err = e.selectFactor(ctx, oracle.Request{
			Standard: factors.IPCC2006, Activity: shown, Candidates: cands, GWP: e.gwp,
		})
		if err != nil {
			return Result{}, err
		}
		in.FactorID = sel.ChosenFactorID
	}

	tr, err := e.tiered.Calculate(ctx, in)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		EmissionValue:    tr.EmissionValue,
		CO2Equivalent:    tr.CO2Equivalent,
		GasType:          tr.GasType,
		PerGas:           map[factors.GasType]float64{tr.GasType: tr.EmissionValue},
		GWPUsed:          map[factors.GasType]float64{tr.GasType: tr.GWPUsed},
		AssessmentReport: tr.AssessmentReport,
		FactorUsed:       tr.FactorUsed,
		Method:           tr.Method,
		Formula:          tr.Formula,
		Tier:             tr.Tier,
		Warnings:         tr.Warnings,
	}

	switch {
	case req.PinnedFactor != "":
		res.Method += "_" + reconcile.MethodPinned
		if tr.FactorUsed.Standard != factors.IPCC2006 {
			res.Warnings = append(res.Warnings, pinnedElsewhere(tr.FactorUsed, factors.IPCC2006))
		}
	case sel != nil:
		res.Method += "_" + reconcile.MethodReconciled
		// The tiered formula reports a single gas; compare only that one.
		claimed := *sel
		claimed.PerGas = nil
		if v, ok := sel.PerGas[tr.GasType]; ok {
			claimed.PerGas = map[factors.GasType]float64{tr.GasType: v}
		}
		res.Discrepancies = e.recon.Compare(ctx, &claimed, tr.EmissionValue, tr.CO2Equivalent, res.PerGas)
		res.DiscrepancyFlag = len(res.Discrepancies) > 0
		res.OracleExplanation = sel.Explanation
		res.OracleCached = sel.Cached
	default:
		res.Method += autoSuffix
		logAuto(ctx, factors.IPCC2006, tr.FactorUsed.ID)
	}
	return res, nil
}

// eligibleTier keeps factors at or below tier, plus untiered ones.
func eligibleTier(cands []factors.EmissionFactor, tier factors.Tier) []factors.EmissionFactor {
	if tier == "" {
		tier = factors.Tier1
	}
	out := make([]factors.EmissionFactor, 0, len(cands))
	for _, f := range cands {
		if f.Tier == "" || f.Tier.Rank() <= tier.Rank() {
			out = append(out, f)
		}
	}
	return out
}

// calculateDirect handles the standards that apply a factor to the
// quantity without a tier model.
func (e *Engine) calculateDirect(ctx context.Context, std factors.Standard, req Request) (Result, error) {
	if req.PinnedFactor != "" {
		f, err := e.store.Get(req.PinnedFactor)
		if err != nil {
			return Result{}, err
		}
		rr, err := e.recon.Pinned(ctx, req.Activity, f)
		if err != nil {
			return Result{}, err
		}
		res := fromReconcile(rr)
		if f.Standard != std {
			res.Warnings = append(res.Warnings, pinnedElsewhere(f, std))
		}
		return res, nil
	}

	cands := e.candidates(std, req)
	if len(cands) == 0 {
		return Result{}, fmt.Errorf("%w: %s category %q unit %q year %d",
			factors.ErrFactorNotFound, std, req.Activity.Category, req.Activity.Unit, req.Activity.StandardYear)
	}

	if e.adapter == nil {
		rr, err := e.recon.Recompute(req.Activity.Quantity, cands[0], req.GasType)
		if err != nil {
			return Result{}, err
		}
		rr.Method = reconcile.MethodRecomputed + autoSuffix
		logAuto(ctx, std, cands[0].ID)
		return fromReconcile(rr), nil
	}

	sel, err := e.selectFactor(ctx, oracle.Request{
		Standard: std, Activity: req.Activity, Candidates: cands, GWP: e.gwp,
	})
	if err != nil {
		return Result{}, err
	}
	rr, err := e.recon.Reconcile(ctx, req.Activity, sel)
	if err != nil {
		return Result{}, err
	}
	res := fromReconcile(rr)
	res.OracleExplanation = sel.Explanation
	res.OracleCached = sel.Cached
	return res, nil
}

// candidates looks factors up by year, category and unit, keeping those
// that define the requested gas.
func (e *Engine) candidates(std factors.Standard, req Request) []factors.EmissionFactor {
	a := req.Activity
	all := e.store.Lookup(std, a.StandardYear, a.Category, a.Unit)
	if req.GasType == "" {
		return all
	}
	out := all[:0]
	for _, f := range all {
		if _, ok := f.Value(req.GasType); ok {
			out = append(out, f)
		}
	}
	return out
}

func logAuto(ctx context.Context, std factors.Standard, factorID string) {
	logging.FromContext(ctx).Info().Ctx(ctx).
		Str("component", "engine").
		Str("standard", string(std)).
		Str("factor_id", factorID).
		Msg("no oracle configured, using most specific candidate")
}

func pinnedElsewhere(f factors.EmissionFactor, std factors.Standard) string {
	return fmt.Sprintf("pinned factor %s belongs to %s, not %s", f.ID, f.Standard, std)
}
