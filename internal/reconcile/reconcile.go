// Package reconcile recomputes emissions from an emission factor and
// compares them with what the oracle claimed. The recomputed figures are
// always the ones returned.
package reconcile

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rshade/ghgcalc/internal/activity"
	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/logging"
	"github.com/rshade/ghgcalc/internal/oracle"
)

// DefaultTolerance is the absolute difference above which an oracle value
// is flagged.
const DefaultTolerance = 0.01

// Method names recorded on results.
const (
	MethodReconciled = "RECONCILED"
	MethodPinned     = "PINNED_FACTOR"
	MethodRecomputed = "RECOMPUTED"
)

// Fields compared against the oracle.
const (
	FieldEmissionValue = "emission_value"
	FieldCO2Equivalent = "co2_equivalent"
)

// Calculator is safe for concurrent use; it holds only immutable values.
type Calculator struct {
	gwp       factors.GWPTable
	tolerance float64
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithTolerance overrides DefaultTolerance.
func WithTolerance(tol float64) Option {
	return func(c *Calculator) { c.tolerance = tol }
}

// New returns a Calculator using gwp for CO2e conversion.
func New(gwp factors.GWPTable, opts ...Option) *Calculator {
	c := &Calculator{gwp: gwp, tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GWPTable returns the table the calculator converts with.
func (c *Calculator) GWPTable() factors.GWPTable {
	return c.gwp
}

// Discrepancy is one field where the oracle and the recomputation disagree.
type Discrepancy struct {
	Field      string  `json:"field"`
	Oracle     float64 `json:"oracle"`
	Recomputed float64 `json:"recomputed"`
	Difference float64 `json:"difference"`
}

// Result is a reconciled calculation.
type Result struct {
	EmissionValue    float64                     `json:"emission_value"`
	CO2Equivalent    float64                     `json:"co2_equivalent"`
	GasType          factors.GasType             `json:"gas_type"`
	PerGas           map[factors.GasType]float64 `json:"per_gas"`
	GWPUsed          map[factors.GasType]float64 `json:"gwp_used"`
	AssessmentReport string                      `json:"assessment_report"`
	FactorUsed       factors.EmissionFactor      `json:"factor_used"`
	Method           string                      `json:"method"`
	Formula          string                      `json:"formula,omitempty"`
	DiscrepancyFlag  bool                        `json:"discrepancy_flag"`
	Discrepancies    []Discrepancy               `json:"discrepancies,omitempty"`
	Warnings         []string                    `json:"warnings,omitempty"`
}

// Recompute applies f to quantity for every gas f defines:
// emission_g = quantity × f.PerGas[g] and co2e = Σ emission_g × gwp(g).
// Gases are summed in name order so identical inputs give identical bits.
// gas selects which gas EmissionValue reports; empty means f.GasType.
func (c *Calculator) Recompute(quantity float64, f factors.EmissionFactor, gas factors.GasType) (Result, error) {
	if gas == "" {
		gas = f.GasType
	}
	res := Result{
		GasType:          gas,
		PerGas:           make(map[factors.GasType]float64, len(f.PerGas)),
		GWPUsed:          make(map[factors.GasType]float64, len(f.PerGas)),
		AssessmentReport: c.gwp.Report(),
		FactorUsed:       f.Clone(),
		Formula:          "Σ Quantity × Factor(gas) × GWP(gas)",
	}

	for _, g := range f.Gases() {
		gwp, err := c.gwp.GWP(g)
		if err != nil {
			return Result{}, fmt.Errorf("factor %s: %w", f.ID, err)
		}
		emission := quantity * f.PerGas[g]
		res.PerGas[g] = emission
		res.GWPUsed[g] = gwp
		res.CO2Equivalent += emission * gwp
	}
	res.EmissionValue = res.PerGas[gas]
	return res, nil
}

// Pinned computes with a caller-chosen factor. A unit that differs from the
// factor's is recorded as a warning only.
func (c *Calculator) Pinned(ctx context.Context, m activity.Measurement, f factors.EmissionFactor) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}
	res, err := c.Recompute(m.Quantity, f, "")
	if err != nil {
		return Result{}, err
	}
	res.Method = MethodPinned

	if !strings.EqualFold(strings.TrimSpace(m.Unit), strings.TrimSpace(f.Unit)) {
		msg := fmt.Sprintf("activity unit %q differs from factor %s unit %q", m.Unit, f.ID, f.Unit)
		res.Warnings = append(res.Warnings, msg)
		logging.FromContext(ctx).Warn().Ctx(ctx).
			Str("component", "reconcile").
			Str("factor_id", f.ID).
			Str("activity_unit", m.Unit).
			Str("factor_unit", f.Unit).
			Msg("unit mismatch on pinned factor")
	}
	return res, nil
}

// Reconcile recomputes from the factor the oracle chose and compares each
// gas it reported, its emission value and its CO2e total. Differences above
// the tolerance set DiscrepancyFlag and are logged; the recomputed values
// are returned either way.
func (c *Calculator) Reconcile(ctx context.Context, m activity.Measurement, sel *oracle.Selection) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}
	if sel == nil {
		return Result{}, fmt.Errorf("reconcile: nil selection")
	}

	gas := sel.GasType
	var warning string
	if _, ok := sel.Factor.Value(gas); !ok && gas != "" {
		warning = fmt.Sprintf("oracle gas %s is not defined by factor %s, reporting %s",
			gas, sel.Factor.ID, sel.Factor.GasType)
		gas = ""
	}
	res, err := c.Recompute(m.Quantity, sel.Factor, gas)
	if err != nil {
		return Result{}, err
	}
	res.Method = MethodReconciled
	if warning != "" {
		res.Warnings = append(res.Warnings, warning)
	}
	res.Discrepancies = c.Compare(ctx, sel, res.EmissionValue, res.CO2Equivalent, res.PerGas)
	res.DiscrepancyFlag = len(res.Discrepancies) > 0
	return res, nil
}

// Compare checks the oracle's claimed values against recomputed ones: each
// gas the oracle reported, the emission value and the CO2e total. A gas
// missing from perGas counts as 0. Differences above the tolerance are returned and logged.
func (c *Calculator) Compare(
	ctx context.Context,
	sel *oracle.Selection,
	emission, co2e float64,
	perGas map[factors.GasType]float64,
) []Discrepancy {
	var out []Discrepancy
	check := func(field string, claimed, recomputed float64) {
		diff := math.Abs(claimed - recomputed)
		if diff > c.tolerance || math.IsNaN(diff) {
			out = append(out, Discrepancy{
				Field: field, Oracle: claimed, Recomputed: recomputed, Difference: diff,
			})
		}
	}

	for _, g := range sortedGases(sel.PerGas) {
		check(string(g), sel.PerGas[g], perGas[g])
	}
	check(FieldEmissionValue, sel.EmissionValue, emission)
	check(FieldCO2Equivalent, sel.CO2Equivalent, co2e)

	if len(out) > 0 {
		ev := logging.FromContext(ctx).Warn().Ctx(ctx).
			Str("component", "reconcile").
			Str("factor_id", sel.Factor.ID).
			Float64("oracle_emission", sel.EmissionValue).
			Float64("recomputed_emission", emission).
			Float64("oracle_co2e", sel.CO2Equivalent).
			Float64("recomputed_co2e", co2e)
		for _, d := range out {
			ev = ev.Float64("diff_"+d.Field, d.Difference)
		}
		ev.Msg("oracle values differ from recomputation")
	}
	return out
}

func sortedGases(m map[factors.GasType]float64) []factors.GasType {
	return factors.EmissionFactor{PerGas: m}.Gases()
}
