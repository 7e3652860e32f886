package oracle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/ghgcalc/internal/activity"
	"github.com/rshade/ghgcalc/internal/factors"
)

func sampleRequest() Request {
	return Request{
		Standard: factors.DEFRA,
		Activity: activity.Measurement{Quantity: 100, Unit: "litres", ActivityName: "fleet diesel", Category: "fuel", StandardYear: 2024},
		Candidates: []factors.EmissionFactor{
			{
				ID: "f1", Name: "Diesel", Standard: factors.DEFRA, Year: 2024, GasType: factors.CO2, Unit: "litres",
				PerGas: map[factors.GasType]float64{factors.CO2: 2.0, factors.CH4: 0.01, factors.N2O: 0.0001},
				Categories: []string{"fuel", "diesel"},
			},
			{
				ID: "f2", Name: "Biodiesel", Standard: factors.DEFRA, Year: 2024, GasType: factors.CO2, Unit: "litres",
				PerGas: map[factors.GasType]float64{factors.CO2: 0.17},
			},
		},
		GWP: factors.AR5Table(),
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	req := sampleRequest()
	first := BuildPrompt(req)
	for range 20 {
		assert.Equal(t, first, BuildPrompt(req))
	}
}

func TestBuildPrompt_Contents(t *testing.T) {
	p := BuildPrompt(sampleRequest())

	for _, want := range []string{
		"standard: DEFRA",
		"quantity: 100",
		"unit: litres",
		"standard year: 2024",
		"1. id=f1",
		"CH4=0.01 CO2=2 N2O=0.0001",
		"2. id=f2",
		"GWP TABLE (AR5",
		"- CH4: 28",
		"- N2O: 265",
		`"chosenFactorIdentifier"`,
		`"co2Equivalent"`,
	} {
		assert.Contains(t, p, want)
	}
	assert.NotContains(t, p, "CO2e:")
	assert.Less(t, strings.Index(p, "id=f1"), strings.Index(p, "id=f2"))
}

func TestBuildPrompt_MissingName(t *testing.T) {
	req := sampleRequest()
	req.Activity.ActivityName = ""
	assert.Contains(t, BuildPrompt(req), "name: (none)")
}
