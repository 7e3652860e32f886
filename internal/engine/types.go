package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rshade/ghgcalc/internal/activity"
	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/lca"
	"github.com/rshade/ghgcalc/internal/numeric"
	"github.com/rshade/ghgcalc/internal/reconcile"
	"github.com/rshade/ghgcalc/internal/tiered"
)

// Request is one normalized activity to calculate.
type Request struct {
	Activity activity.Measurement
	// PinnedFactor bypasses factor selection.
	PinnedFactor string
	// Tier applies to IPCC requests only; empty means Tier 1.
	Tier factors.Tier
	// HeatingValue applies to IPCC energy categories only.
	HeatingValue float64
	// GasType restricts candidates to factors defining this gas.
	GasType factors.GasType
}

// RawActivity is an activity as it arrives in an input file, with the
// quantity still in the standard's textual convention.
type RawActivity struct {
	Quantity     any    `json:"quantity"               yaml:"quantity"               toml:"quantity"`
	Unit         string `json:"unit"                   yaml:"unit"                   toml:"unit"`
	ActivityName string `json:"activityName,omitempty" yaml:"activityName,omitempty" toml:"activityName"`
	Category     string `json:"category,omitempty"     yaml:"category,omitempty"     toml:"category"`
	StandardYear int    `json:"standardYear,omitempty" yaml:"standardYear,omitempty" toml:"standardYear"`
}

// RawRequest is the inbound form of a Request.
type RawRequest struct {
	Activity     RawActivity `json:"activity"               yaml:"activity"               toml:"activity"`
	PinnedFactor string      `json:"pinnedFactor,omitempty" yaml:"pinnedFactor,omitempty" toml:"pinnedFactor"`
	Tier         string      `json:"tier,omitempty"         yaml:"tier,omitempty"         toml:"tier"`
	HeatingValue any         `json:"heatingValue,omitempty" yaml:"heatingValue,omitempty" toml:"heatingValue"`
	GasType      string      `json:"gasType,omitempty"      yaml:"gasType,omitempty"      toml:"gasType"`
}

// ConventionFor returns the numeric convention a standard's inputs are
// written in. IPCC and DEFRA use European separators, ISO and ISCC US ones.
func ConventionFor(std factors.Standard) numeric.Convention {
	switch std {
	case factors.IPCC2006:
		return tiered.Convention
	case factors.ISCCPlus:
		return lca.Convention
	case factors.ISO14064:
		return numeric.US
	default:
		return numeric.European
	}
}

// Normalize parses raw with std's numeric convention. An unparsable
// quantity becomes 0 and is rejected later by validation.
func Normalize(std factors.Standard, raw RawRequest) (Request, error) {
	parser := numeric.NewParser(ConventionFor(std))
	req := Request{
		Activity: activity.Measurement{
			Quantity:     parser.Parse(raw.Activity.Quantity),
			Unit:         strings.TrimSpace(raw.Activity.Unit),
			ActivityName: raw.Activity.ActivityName,
			Category:     raw.Activity.Category,
			StandardYear: raw.Activity.StandardYear,
		},
		PinnedFactor: strings.TrimSpace(raw.PinnedFactor),
		HeatingValue: parser.Parse(raw.HeatingValue),
	}
	if raw.Tier != "" {
		t, err := factors.ParseTier(raw.Tier)
		if err != nil {
			return Request{}, activity.Invalid("tier", err.Error())
		}
		req.Tier = t
	}
	if strings.TrimSpace(raw.GasType) != "" {
		req.GasType = factors.NormalizeGas(raw.GasType)
	}
	return req, nil
}

// NormalizeAll normalizes every raw request, reporting the first failure
// with its position.
func NormalizeAll(std factors.Standard, raws []RawRequest) ([]Request, error) {
	out := make([]Request, 0, len(raws))
	for i, raw := range raws {
		req, err := Normalize(std, raw)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i+1, err)
		}
		out = append(out, req)
	}
	return out, nil
}

// Result is a finished calculation for one activity.
type Result struct {
	ID                string                      `json:"id"`
	Standard          factors.Standard            `json:"standard"`
	Activity          activity.Measurement        `json:"activity"`
	EmissionValue     float64                     `json:"emission_value"`
	CO2Equivalent     float64                     `json:"co2_equivalent"`
	GasType           factors.GasType             `json:"gas_type"`
	PerGas            map[factors.GasType]float64 `json:"per_gas,omitempty"`
	GWPUsed           map[factors.GasType]float64 `json:"gwp_used,omitempty"`
	AssessmentReport  string                      `json:"assessment_report"`
	FactorUsed        factors.EmissionFactor      `json:"factor_used"`
	Method            string                      `json:"method"`
	Formula           string                      `json:"formula,omitempty"`
	Tier              factors.Tier                `json:"tier,omitempty"`
	ISOCategory       int                         `json:"iso_category,omitempty"`
	ISOCategoryName   string                      `json:"iso_category_name,omitempty"`
	DiscrepancyFlag   bool                        `json:"discrepancy_flag"`
	Discrepancies     []reconcile.Discrepancy     `json:"discrepancies,omitempty"`
	OracleExplanation string                      `json:"oracle_explanation,omitempty"`
	OracleCached      bool                        `json:"oracle_cached,omitempty"`
	Warnings          []string                    `json:"warnings,omitempty"`
	CalculatedAt      time.Time                   `json:"calculated_at"`
}

func fromReconcile(r reconcile.Result) Result {
	return Result{
		EmissionValue:    r.EmissionValue,
		CO2Equivalent:    r.CO2Equivalent,
		GasType:          r.GasType,
		PerGas:           r.PerGas,
		GWPUsed:          r.GWPUsed,
		AssessmentReport: r.AssessmentReport,
		FactorUsed:       r.FactorUsed,
		Method:           r.Method,
		Formula:          r.Formula,
		Tier:             r.FactorUsed.Tier,
		DiscrepancyFlag:  r.DiscrepancyFlag,
		Discrepancies:    r.Discrepancies,
		Warnings:         r.Warnings,
	}
}

// LCARequest is one ISCC corn-to-ethanol pathway evaluation.
type LCARequest struct {
	// Inputs are raw leaf values in the US convention; unset inputs take
	// their defaults.
	Inputs map[string]any `json:"inputs" yaml:"inputs" toml:"inputs"`
	// FormulaMode overrides the engine default when set.
	FormulaMode string `json:"formulaMode,omitempty" yaml:"formulaMode,omitempty" toml:"formulaMode"`
	// FossilBaseline overrides the engine default when positive.
	FossilBaseline float64 `json:"fossilBaseline,omitempty" yaml:"fossilBaseline,omitempty" toml:"fossilBaseline"`
	// IncludeNodes returns every intermediate node value.
	IncludeNodes bool `json:"includeNodes,omitempty" yaml:"includeNodes,omitempty" toml:"includeNodes"`
}

// LCAResult is a pathway result with its calculation metadata.
type LCAResult struct {
	ID           string           `json:"id"`
	Standard     factors.Standard `json:"standard"`
	CalculatedAt time.Time        `json:"calculated_at"`
	lca.Result
}
