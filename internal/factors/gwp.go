package factors

import (
	"fmt"
	"sort"
	"strings"
)

// Assessment report identifiers for the bundled GWP tables.
const (
	AR4 = "AR4"
	AR5 = "AR5"
	AR6 = "AR6"
)

// DefaultAssessmentReport is the report used when none is configured.
const DefaultAssessmentReport = AR5

// GWPValue is one entry of a GWP table.
type GWPValue struct {
	GasType          GasType `json:"gas_type"          yaml:"gas_type"`
	Value            float64 `json:"value"             yaml:"value"`
	AssessmentReport string  `json:"assessment_report" yaml:"assessment_report"`
}

// GWPTable maps gases to 100-year Global Warming Potentials.
// A GWPTable is immutable; the zero value has no entries.
type GWPTable struct {
	report string
	values map[GasType]float64
}

// NewGWPTable builds a table from values. The map is copied and the CO2 and
// CO2e entries are pinned to 1.
func NewGWPTable(report string, values map[GasType]float64) GWPTable {
	m := make(map[GasType]float64, len(values)+2)
	for k, v := range values {
		m[k] = v
	}
	m[CO2] = 1
	m[CO2e] = 1
	return GWPTable{report: report, values: m}
}

// Report names the assessment report the table comes from.
func (t GWPTable) Report() string {
	return t.report
}

// GWP returns the multiplier for gas, or ErrUnknownGasType.
func (t GWPTable) GWP(gas GasType) (float64, error) {
	v, ok := t.values[gas]
	if !ok {
		return 0, fmt.Errorf("%w: %s (%s)", ErrUnknownGasType, gas, t.report)
	}
	return v, nil
}

// Has reports whether the table defines gas.
func (t GWPTable) Has(gas GasType) bool {
	_, ok := t.values[gas]
	return ok
}

// Values returns every entry sorted by gas name, excluding the CO2e
// pseudo-gas.
func (t GWPTable) Values() []GWPValue {
	out := make([]GWPValue, 0, len(t.values))
	for g, v := range t.values {
		if g == CO2e {
			continue
		}
		out = append(out, GWPValue{GasType: g, Value: v, AssessmentReport: t.report})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GasType < out[j].GasType })
	return out
}

// AR4Table returns the IPCC Fourth Assessment Report 100-year GWPs.
func AR4Table() GWPTable {
	return NewGWPTable(AR4, map[GasType]float64{
		CH4:     25,
		N2O:     298,
		SF6:     22800,
		NF3:     17200,
		HFC134a: 1430,
		HFC32:   675,
		CF4:     7390,
	})
}

// AR5Table returns the IPCC Fifth Assessment Report 100-year GWPs
// (without climate-carbon feedbacks).
func AR5Table() GWPTable {
	return NewGWPTable(AR5, map[GasType]float64{
		CH4:     28,
		N2O:     265,
		SF6:     23500,
		NF3:     16100,
		HFC134a: 1300,
		HFC32:   677,
		CF4:     6630,
	})
}

// AR6Table returns the IPCC Sixth Assessment Report 100-year GWPs.
// CH4 uses the non-fossil value.
func AR6Table() GWPTable {
	return NewGWPTable(AR6, map[GasType]float64{
		CH4:     27.0,
		N2O:     273,
		SF6:     25200,
		NF3:     17400,
		HFC134a: 1530,
		HFC32:   771,
		CF4:     7380,
	})
}

// GWPTableFor returns the bundled table for an assessment report name.
// An empty name selects DefaultAssessmentReport.
func GWPTableFor(report string) (GWPTable, error) {
	switch strings.ToUpper(strings.TrimSpace(report)) {
	case AR4:
		return AR4Table(), nil
	case AR5, "":
		return AR5Table(), nil
	case AR6:
		return AR6Table(), nil
	default:
		return GWPTable{}, fmt.Errorf("%w: %q", ErrUnknownAssessmentReport, report)
	}
}
