// Package report renders calculation results for people: number
// formatting, EPA equivalencies for CO2e totals, and table or JSON output.
package report

import (
	"fmt"
	"math"
)

// EPA greenhouse gas equivalency divisors, kg CO2e per unit of activity
// (EPA GHG Equivalencies Calculator, 2024 edition).
const (
	// EPAMilesDrivenFactor is kg CO2e per mile in an average passenger vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2e per full smartphone charge.
	EPASmartphoneChargeFactor = 0.00822
)

// MinEquivalencyThresholdKg is the smallest CO2e total that gets
// equivalencies; below it they round to nothing.
const MinEquivalencyThresholdKg = 1.0

// Display thresholds for abbreviated numbers.
const (
	LargeNumberThreshold = 1_000_000
	BillionThreshold     = 1_000_000_000
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Equivalency errors.
const (
	ErrNegativeValue       = constError("negative carbon value")
	ErrCalculationOverflow = constError("calculation overflow")
)

// EquivalencyType is a category of relatable comparison.
type EquivalencyType int

const (
	// EquivalencyMilesDriven is miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota
	// EquivalencySmartphonesCharged is full smartphone charges.
	EquivalencySmartphonesCharged
)

func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// Equivalency is one computed comparison.
type Equivalency struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// Equivalencies is the set of comparisons for one CO2e total.
type Equivalencies struct {
	InputKg     float64       `json:"input_kg"`
	Results     []Equivalency `json:"results,omitempty"`
	DisplayText string        `json:"display_text,omitempty"`
	CompactText string        `json:"compact_text,omitempty"`
	IsEmpty     bool          `json:"is_empty"`
}

// CalculateEquivalencies converts kg CO2e into miles driven and smartphones
// charged. Totals below MinEquivalencyThresholdKg yield an empty result.
func CalculateEquivalencies(kg float64) (Equivalencies, error) {
	switch {
	case math.IsInf(kg, 0) || math.IsNaN(kg):
		return Equivalencies{IsEmpty: true}, ErrCalculationOverflow
	case kg < 0:
		return Equivalencies{IsEmpty: true}, ErrNegativeValue
	case kg < MinEquivalencyThresholdKg:
		return Equivalencies{InputKg: kg, IsEmpty: true}, nil
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor
	milesText := formatEquivalencyValue(miles)
	phonesText := formatEquivalencyValue(phones)

	return Equivalencies{
		InputKg: kg,
		Results: []Equivalency{
			{Type: EquivalencyMilesDriven, Value: miles, FormattedValue: milesText, Label: "miles driven"},
			{Type: EquivalencySmartphonesCharged, Value: phones, FormattedValue: phonesText, Label: "smartphones charged"},
		},
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones", milesText, phonesText),
		CompactText: fmt.Sprintf("(≈ %s mi, %s phones)", milesText, phonesText),
	}, nil
}

func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
