// Package factors holds the static reference data used by every calculator:
// emission factors per accounting standard and GWP tables per IPCC
// assessment report.
//
// Everything in this package is immutable after construction. A Store or
// GWPTable is built once at startup and shared by concurrent calculations
// without locking; accessors hand out copies.
package factors

import (
	"fmt"
	"sort"
	"strings"
)

// Standard identifies an accounting standard.
type Standard string

// Supported accounting standards.
const (
	IPCC2006 Standard = "IPCC_2006"
	DEFRA    Standard = "DEFRA"
	ISCCPlus Standard = "ISCC_PLUS_205"
	ISO14064 Standard = "ISO_14064_1"
)

// Standards lists every supported standard in display order.
func Standards() []Standard {
	return []Standard{IPCC2006, DEFRA, ISCCPlus, ISO14064}
}

// ParseStandard resolves a canonical name or a short alias
// ("ipcc", "defra", "iscc", "iso14064") to a Standard.
func ParseStandard(s string) (Standard, error) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	switch norm {
	case "ipcc", "ipcc2006":
		return IPCC2006, nil
	case "defra":
		return DEFRA, nil
	case "iscc", "isccplus", "isccplus205", "iscc205":
		return ISCCPlus, nil
	case "iso", "iso14064", "iso140641":
		return ISO14064, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStandard, s)
	}
}

// GasType names a greenhouse gas.
type GasType string

// Gas types with GWP entries in the bundled tables.
//
// CO2e is the aggregate pseudo-gas used by composite factors that are
// already expressed in CO2-equivalent; its GWP is 1 in every table.
const (
	CO2     GasType = "CO2"
	CH4     GasType = "CH4"
	N2O     GasType = "N2O"
	SF6     GasType = "SF6"
	NF3     GasType = "NF3"
	HFC134a GasType = "HFC-134a"
	HFC32   GasType = "HFC-32"
	CF4     GasType = "CF4"
	CO2e    GasType = "CO2e"
)

// NormalizeGas maps loose spellings ("co2", "Methane", "n2o") onto a GasType.
// Unknown names are returned upper-cased so the GWP lookup reports them.
func NormalizeGas(s string) GasType {
	t := strings.TrimSpace(s)
	switch strings.ToLower(t) {
	case "co2", "carbon dioxide":
		return CO2
	case "ch4", "methane":
		return CH4
	case "n2o", "nitrous oxide":
		return N2O
	case "co2e", "co2eq", "co2-eq", "co2 equivalent":
		return CO2e
	case "sf6":
		return SF6
	case "nf3":
		return NF3
	case "cf4":
		return CF4
	case "hfc-134a", "hfc134a", "r-134a", "r134a":
		return HFC134a
	case "hfc-32", "hfc32", "r-32", "r32":
		return HFC32
	}
	return GasType(strings.ToUpper(t))
}

// Tier is the IPCC methodology precision level.
type Tier string

// IPCC tiers, lowest to highest precision.
const (
	Tier1 Tier = "TIER_1"
	Tier2 Tier = "TIER_2"
	Tier3 Tier = "TIER_3"
)

// ParseTier accepts "TIER_2", "tier2", "2" and similar spellings.
// An empty string yields Tier1.
func ParseTier(s string) (Tier, error) {
	norm := strings.ToUpper(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	switch norm {
	case "", "1", "TIER1", "T1":
		return Tier1, nil
	case "2", "TIER2", "T2":
		return Tier2, nil
	case "3", "TIER3", "T3":
		return Tier3, nil
	default:
		return "", fmt.Errorf("unknown tier %q", s)
	}
}

// Rank orders tiers: Tier1=1, Tier2=2, Tier3=3, anything else 0.
func (t Tier) Rank() int {
	switch t {
	case Tier1:
		return 1
	case Tier2:
		return 2
	case Tier3:
		return 3
	default:
		return 0
	}
}

// EmissionFactor is one row of a standard's factor table.
//
// PerGas holds the mass of each gas emitted per unit of activity, in kg per
// Unit. GasType names the gas the factor is primarily published for.
type EmissionFactor struct {
	ID         string              `yaml:"id"         json:"id"`
	Name       string              `yaml:"name"       json:"name"`
	Standard   Standard            `yaml:"standard"   json:"standard"`
	Year       int                 `yaml:"year"       json:"year"`
	GasType    GasType             `yaml:"gas_type"   json:"gas_type"`
	Unit       string              `yaml:"unit"       json:"unit"`
	PerGas     map[GasType]float64 `yaml:"per_gas"    json:"per_gas"`
	Tier       Tier                `yaml:"tier"       json:"tier,omitempty"`
	Categories []string            `yaml:"categories" json:"categories"`
	Source     string              `yaml:"source"     json:"source"`
}

// Gases returns the gases the factor defines, sorted by name.
// Calculations iterate in this order so repeated runs sum identically.
func (f EmissionFactor) Gases() []GasType {
	gases := make([]GasType, 0, len(f.PerGas))
	for g := range f.PerGas {
		gases = append(gases, g)
	}
	sort.Slice(gases, func(i, j int) bool { return gases[i] < gases[j] })
	return gases
}

// Value returns the per-unit factor for gas g.
func (f EmissionFactor) Value(g GasType) (float64, bool) {
	v, ok := f.PerGas[g]
	return v, ok
}

// PrimaryValue returns the factor for the factor's own GasType.
func (f EmissionFactor) PrimaryValue() (float64, bool) {
	return f.Value(f.GasType)
}

// Clone returns a deep copy so callers cannot mutate shared store data.
func (f EmissionFactor) Clone() EmissionFactor {
	out := f
	if f.PerGas != nil {
		out.PerGas = make(map[GasType]float64, len(f.PerGas))
		for k, v := range f.PerGas {
			out.PerGas[k] = v
		}
	}
	if f.Categories != nil {
		out.Categories = append([]string(nil), f.Categories...)
	}
	return out
}

// Validate checks the fields every calculator relies on.
func (f EmissionFactor) Validate() error {
	switch {
	case strings.TrimSpace(f.ID) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidFactor)
	case f.Standard == "":
		return fmt.Errorf("%w: %s: standard is required", ErrInvalidFactor, f.ID)
	case strings.TrimSpace(f.Unit) == "":
		return fmt.Errorf("%w: %s: unit is required", ErrInvalidFactor, f.ID)
	case len(f.PerGas) == 0:
		return fmt.Errorf("%w: %s: per_gas must define at least one gas", ErrInvalidFactor, f.ID)
	}
	for _, c := range f.Categories {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: %s: categories must not be blank", ErrInvalidFactor, f.ID)
		}
	}
	if f.GasType != "" {
		if _, ok := f.PerGas[f.GasType]; !ok {
			return fmt.Errorf("%w: %s: gas_type %s missing from per_gas", ErrInvalidFactor, f.ID, f.GasType)
		}
	}
	return nil
}
