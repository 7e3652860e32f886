// Package tiered implements the IPCC tiered category calculator: pick a
// factor for the requested tier, apply the energy or basic formula and
// convert with the injected GWP table.
package tiered

import (
	"context"
	"fmt"

	"github.com/Knetic/govaluate"
	"github.com/spf13/cast"

	"github.com/rshade/ghgcalc/internal/activity"
	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/logging"
	"github.com/rshade/ghgcalc/internal/numeric"
)

// Convention is how IPCC inputs are parsed.
const Convention = numeric.European

// Formula texts recorded on results.
const (
	FormulaEnergyWithHV = "Activity × Heating Value × Emission Factor"
	FormulaBasic        = "Activity × Emission Factor"
)

const (
	methodEnergyWithHV = "ENERGY_WITH_HV"
	methodBasic        = "BASIC"
)

//nolint:gochecknoglobals // Compiled once; EvaluableExpression is read-only after parsing.
var (
	energyExpr = mustExpression("activity * heatingValue * factor")
	basicExpr  = mustExpression("activity * factor")
)

func mustExpression(s string) *govaluate.EvaluableExpression {
	expr, err := govaluate.NewEvaluableExpression(s)
	if err != nil {
		panic(fmt.Sprintf("tiered: bad built-in formula %q: %v", s, err))
	}
	return expr
}

// Input is one IPCC activity.
type Input struct {
	Activity     activity.Measurement
	Tier         factors.Tier
	HeatingValue float64
	GasType      factors.GasType
	FactorID     string
}

// Result is a tiered calculation.
type Result struct {
	EmissionValue    float64                `json:"emission_value"`
	CO2Equivalent    float64                `json:"co2_equivalent"`
	GasType          factors.GasType        `json:"gas_type"`
	GWPUsed          float64                `json:"gwp_used"`
	AssessmentReport string                 `json:"assessment_report"`
	FactorUsed       factors.EmissionFactor `json:"factor_used"`
	RequestedTier    factors.Tier           `json:"requested_tier"`
	Tier             factors.Tier           `json:"tier"`
	Method           string                 `json:"method"`
	Formula          string                 `json:"formula"`
	Warnings         []string               `json:"warnings,omitempty"`
}

// Calculator evaluates tiered IPCC activities against one factor store and
// GWP table. It is safe for concurrent use.
type Calculator struct {
	store    *factors.Store
	gwp      factors.GWPTable
	standard factors.Standard
}

// New returns a Calculator over the IPCC 2006 factors in store.
func New(store *factors.Store, gwp factors.GWPTable) *Calculator {
	return &Calculator{store: store, gwp: gwp, standard: factors.IPCC2006}
}

// Calculate selects a factor and computes emission and CO2e.
func (c *Calculator) Calculate(ctx context.Context, in Input) (Result, error) {
	if err := in.Activity.Validate(); err != nil {
		return Result{}, err
	}
	if in.HeatingValue < 0 {
		return Result{}, activity.Invalid("heating_value", "must not be negative")
	}
	tier := in.Tier
	if tier == "" {
		tier = factors.Tier1
	}

	gas := in.GasType
	if gas == "" {
		g, ok, err := DefaultGas(in.Activity.Category)
		if err != nil {
			return Result{}, err
		}
		if ok {
			gas = g
		}
	}

	f, err := c.selectFactor(in, tier, gas)
	if err != nil {
		return Result{}, err
	}
	if gas == "" {
		gas = f.GasType
	}
	value, ok := f.Value(gas)
	if !ok {
		return Result{}, fmt.Errorf("%w: factor %s has no %s value", factors.ErrFactorNotFound, f.ID, gas)
	}
	gwp, err := c.gwp.GWP(gas)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		GasType:          gas,
		GWPUsed:          gwp,
		AssessmentReport: c.gwp.Report(),
		FactorUsed:       f,
		RequestedTier:    tier,
		Tier:             tier,
	}
	if f.Tier != "" {
		res.Tier = f.Tier
	}
	if res.Tier != tier && in.FactorID == "" {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("no %s factor for %q, used %s factor %s", tier, in.Activity.Category, res.Tier, f.ID))
	}

	params := map[string]interface{}{
		"activity":     in.Activity.Quantity,
		"factor":       value,
		"heatingValue": in.HeatingValue,
	}
	expr := basicExpr
	shape := methodBasic
	res.Formula = FormulaBasic
	energy := IsEnergySector(in.Activity.Category)
	switch {
	case energy && in.HeatingValue > 0:
		expr = energyExpr
		shape = methodEnergyWithHV
		res.Formula = FormulaEnergyWithHV
	case in.HeatingValue > 0:
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("heating value ignored for non-energy category %q", in.Activity.Category))
	}
	res.Method = string(res.Tier) + "_" + shape

	out, err := expr.Evaluate(params)
	if err != nil {
		return Result{}, fmt.Errorf("evaluating %s: %w", res.Formula, err)
	}
	res.EmissionValue = cast.ToFloat64(out)
	res.CO2Equivalent = res.EmissionValue * gwp

	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("component", "tiered").
		Str("factor_id", f.ID).
		Str("method", res.Method).
		Float64("emission", res.EmissionValue).
		Msg("tiered calculation")
	return res, nil
}

// selectFactor returns the pinned factor, or the most specific candidate at
// the requested tier, falling back to lower tiers in order.
func (c *Calculator) selectFactor(in Input, tier factors.Tier, gas factors.GasType) (factors.EmissionFactor, error) {
	if in.FactorID != "" {
		f, err := c.store.Get(in.FactorID)
		if err != nil {
			return factors.EmissionFactor{}, err
		}
		return f, nil
	}

	candidates := c.Candidates(in.Activity.StandardYear, in.Activity.Category, gas)
	if len(candidates) == 0 {
		return factors.EmissionFactor{}, fmt.Errorf("%w: %s category %q year %d gas %q",
			factors.ErrFactorNotFound, c.standard, in.Activity.Category, in.Activity.StandardYear, gas)
	}

	for rank := tier.Rank(); rank >= 1; rank-- {
		for _, f := range candidates {
			if f.Tier.Rank() == rank {
				return f, nil
			}
		}
	}
	// Untiered factors serve any tier.
	for _, f := range candidates {
		if f.Tier == "" {
			return f, nil
		}
	}
	return factors.EmissionFactor{}, fmt.Errorf("%w: no factor at or below %s for category %q",
		factors.ErrFactorNotFound, tier, in.Activity.Category)
}

// Candidates lists the factors for category and year that define gas (any
// gas when empty), most specific first.
func (c *Calculator) Candidates(year int, category string, gas factors.GasType) []factors.EmissionFactor {
	all := c.store.Lookup(c.standard, year, category, "")
	if gas == "" {
		return all
	}
	out := all[:0]
	for _, f := range all {
		if _, ok := f.Value(gas); ok {
			out = append(out, f)
		}
	}
	return out
}
