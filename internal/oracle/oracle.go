// Package oracle asks an external model to choose an emission factor for an
// activity and turns its reply into a provisional Selection.
//
// A Selection is never a result. Its numbers are what the oracle claims; the
// reconcile package recomputes them from the chosen factor and decides what
// is returned.
package oracle

import (
	"context"

	"github.com/rshade/ghgcalc/internal/activity"
	"github.com/rshade/ghgcalc/internal/factors"
)

// Oracle completes a prompt with free text.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to Oracle.
type Func func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Request is everything the oracle is shown for one activity.
type Request struct {
	Standard   factors.Standard
	Activity   activity.Measurement
	Candidates []factors.EmissionFactor
	GWP        factors.GWPTable
}

// Selection is the oracle's provisional answer, with the chosen factor
// resolved against the candidates.
type Selection struct {
	ChosenFactorID string                      `json:"chosen_factor_id"`
	Factor         factors.EmissionFactor      `json:"-"`
	GasType        factors.GasType             `json:"gas_type"`
	EmissionValue  float64                     `json:"emission_value"`
	CO2Equivalent  float64                     `json:"co2_equivalent"`
	Unit           string                      `json:"unit,omitempty"`
	Formula        string                      `json:"formula,omitempty"`
	Explanation    string                      `json:"explanation,omitempty"`
	PerGas         map[factors.GasType]float64 `json:"per_gas,omitempty"`
	Cached         bool                        `json:"cached,omitempty"`
}
