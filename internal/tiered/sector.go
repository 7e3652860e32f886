package tiered

import (
	"fmt"
	"strings"

	"github.com/rshade/ghgcalc/internal/activity"
	"github.com/rshade/ghgcalc/internal/factors"
)

// ErrGasTypeAmbiguous means the category does not imply a gas and the
// caller supplied none. It is also a validation error.
const ErrGasTypeAmbiguous = constError("gas type is ambiguous for category")

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sector keyword groups, matched case-insensitively as substrings.
//
//nolint:gochecknoglobals // Lookup tables.
var (
	energyKeywords = []string{
		"energy", "combustion", "fuel", "stationary", "mobile", "coal",
		"natural gas", "diesel", "gasoline", "petrol", "electricity",
	}
	methaneKeywords = []string{
		"livestock", "enteric", "cattle", "landfill", "solid waste", "rice", "manure management",
	}
	nitrousKeywords = []string{
		"soil", "fertilizer", "fertiliser", "nitrogen",
	}
	industrialKeywords = []string{
		"industrial", "process", "cement", "clinker", "lime", "steel", "chemical",
	}
)

func matches(category string, keywords []string) bool {
	c := strings.ToLower(category)
	for _, k := range keywords {
		if strings.Contains(c, k) {
			return true
		}
	}
	return false
}

// IsEnergySector reports whether category is combustion-like, so that a
// heating value applies.
func IsEnergySector(category string) bool {
	return matches(category, energyKeywords)
}

// DefaultGas picks the gas a category is normally reported in. ok is false
// for categories with no convention. Combustion wins over an industry name,
// so only industrial processes without a combustion keyword return
// ErrGasTypeAmbiguous.
func DefaultGas(category string) (gas factors.GasType, ok bool, err error) {
	switch {
	case matches(category, energyKeywords):
		return factors.CO2, true, nil
	case matches(category, industrialKeywords):
		return "", false, fmt.Errorf("%w %q: %w", ErrGasTypeAmbiguous, category,
			activity.Invalid("gas_type", "required for industrial process categories"))
	case matches(category, methaneKeywords):
		return factors.CH4, true, nil
	case matches(category, nitrousKeywords):
		return factors.N2O, true, nil
	default:
		return "", false, nil
	}
}
