package engine

import (
	"context"
	"time"

	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/lca"
	"github.com/rshade/ghgcalc/internal/logging"
)

// CalculateLCA evaluates the ISCC corn-to-ethanol pathway. Emission-factor
// inputs the request leaves unset default to the engine's factor store and
// the N2O GWP comes from the engine's GWP table.
func (e *Engine) CalculateLCA(ctx context.Context, req LCARequest) (LCAResult, error) {
	start := time.Now()
	res, err := e.calculateLCA(ctx, req)
	e.metrics.ObserveCalculation(string(factors.ISCCPlus), err == nil, time.Since(start))
	if err != nil {
		return LCAResult{}, err
	}
	e.metrics.ObserveZeroGuarded(len(res.ZeroGuarded))
	return res, nil
}

func (e *Engine) calculateLCA(ctx context.Context, req LCARequest) (LCAResult, error) {
	mode := e.lcaMode
	if req.FormulaMode != "" {
		m, err := lca.ParseFormulaMode(req.FormulaMode)
		if err != nil {
			return LCAResult{}, err
		}
		mode = m
	}
	p, err := e.pathway(mode)
	if err != nil {
		return LCAResult{}, err
	}
	in := lca.ParseInputs(req.Inputs)
	if _, set := in[lca.InputFossilBaseline]; !set && req.FossilBaseline > 0 {
		in[lca.InputFossilBaseline] = req.FossilBaseline
	}
	r, err := p.Calculate(ctx, in, req.IncludeNodes)
	if err != nil {
		return LCAResult{}, err
	}

	if len(r.ZeroGuarded) > 0 {
		logging.FromContext(ctx).Debug().Ctx(ctx).
			Str("component", "engine").
			Str("operation", "calculate_lca").
			Strs("zero_guarded", r.ZeroGuarded).
			Msg("pathway nodes forced to zero")
	}
	return LCAResult{
		ID:           logging.NewID(),
		Standard:     factors.ISCCPlus,
		CalculatedAt: e.now().UTC(),
		Result:       r,
	}, nil
}

// pathway compiles the graph for mode once per engine. Pathways are
// immutable and shared by concurrent evaluations.
func (e *Engine) pathway(mode lca.FormulaMode) (*lca.Pathway, error) {
	if p, ok := e.pathways.Load(mode); ok {
		return p.(*lca.Pathway), nil
	}
	p, err := lca.NewPathway(mode,
		lca.WithFactorDefaults(e.store),
		lca.WithGWP(e.gwp),
		lca.WithFossilBaseline(e.fossilBaseline),
	)
	if err != nil {
		return nil, err
	}
	actual, _ := e.pathways.LoadOrStore(mode, p)
	return actual.(*lca.Pathway), nil
}

// LCAInputs lists the pathway's input names with their effective defaults.
func (e *Engine) LCAInputs() (map[string]float64, error) {
	p, err := e.pathway(e.lcaMode)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, name := range p.InputNames() {
		v, _ := p.Default(name)
		out[name] = v
	}
	return out, nil
}
