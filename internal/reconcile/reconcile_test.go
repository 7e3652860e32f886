package reconcile

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ghgcalc/internal/activity"
	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/logging"
	"github.com/rshade/ghgcalc/internal/oracle"
)

func scenarioFactor() factors.EmissionFactor {
	return factors.EmissionFactor{
		ID: "diesel", Name: "Diesel", Standard: factors.DEFRA, Year: 2024,
		GasType: factors.CO2, Unit: "litres",
		PerGas: map[factors.GasType]float64{factors.CO2: 2.0, factors.CH4: 0.01},
	}
}

func measurement() activity.Measurement {
	return activity.Measurement{Quantity: 100, Unit: "litres", Category: "fuel"}
}

func TestRecompute_Scenario(t *testing.T) {
	c := New(factors.AR5Table())
	res, err := c.Recompute(100, scenarioFactor(), "")
	require.NoError(t, err)

	assert.InDelta(t, 228.0, res.CO2Equivalent, 1e-9)
	assert.InDelta(t, 200.0, res.EmissionValue, 1e-12)
	assert.InDelta(t, 1.0, res.PerGas[factors.CH4], 1e-12)
	assert.Equal(t, 1.0, res.GWPUsed[factors.CO2])
	assert.Equal(t, 28.0, res.GWPUsed[factors.CH4])
	assert.Equal(t, factors.AR5, res.AssessmentReport)
}

func TestRecompute_GWPSum(t *testing.T) {
	f := factors.EmissionFactor{
		ID: "mix", Unit: "kg", Standard: factors.IPCC2006, GasType: factors.CO2,
		PerGas: map[factors.GasType]float64{factors.CO2: 1.7, factors.CH4: 0.3, factors.N2O: 0.02, factors.SF6: 0.0001},
	}
	table := factors.AR6Table()
	res, err := New(table).Recompute(12.5, f, "")
	require.NoError(t, err)

	want := 0.0
	for _, g := range f.Gases() {
		gwp, _ := table.GWP(g)
		want += 12.5 * f.PerGas[g] * gwp
	}
	assert.Equal(t, want, res.CO2Equivalent)
}

func TestRecompute_UnknownGas(t *testing.T) {
	f := scenarioFactor()
	f.PerGas["H2O"] = 1
	_, err := New(factors.AR5Table()).Recompute(1, f, "")
	assert.ErrorIs(t, err, factors.ErrUnknownGasType)
}

func TestRecompute_Idempotent(t *testing.T) {
	c := New(factors.AR5Table())
	f := factors.EmissionFactor{
		ID: "many", Unit: "kg", Standard: factors.IPCC2006, GasType: factors.CO2,
		PerGas: map[factors.GasType]float64{
			factors.CO2: 0.1, factors.CH4: 0.2, factors.N2O: 0.3, factors.SF6: 1e-7,
			factors.NF3: 3e-7, factors.HFC134a: 1e-3, factors.HFC32: 2e-3, factors.CF4: 7e-6,
		},
	}
	first, err := c.Recompute(1234.5678, f, "")
	require.NoError(t, err)
	for range 50 {
		again, err := c.Recompute(1234.5678, f, "")
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(first.CO2Equivalent), math.Float64bits(again.CO2Equivalent))
		assert.Equal(t, first, again)
	}
}

func TestReconcile_Dominance(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriterLogger(&buf, logging.Config{Level: "warn"})
	ctx := logger.WithContext(context.Background())

	sel := &oracle.Selection{
		ChosenFactorID: "diesel",
		Factor:         scenarioFactor(),
		GasType:        factors.CO2,
		EmissionValue:  250,
		CO2Equivalent:  300,
		PerGas:         map[factors.GasType]float64{factors.CO2: 250, factors.CH4: 1},
	}

	res, err := New(factors.AR5Table()).Reconcile(ctx, measurement(), sel)
	require.NoError(t, err)

	assert.True(t, res.DiscrepancyFlag)
	assert.InDelta(t, 228.0, res.CO2Equivalent, 1e-9)
	assert.InDelta(t, 200.0, res.EmissionValue, 1e-12)
	assert.Equal(t, MethodReconciled, res.Method)

	fields := map[string]bool{}
	for _, d := range res.Discrepancies {
		fields[d.Field] = true
	}
	assert.Equal(t, map[string]bool{"CO2": true, FieldEmissionValue: true, FieldCO2Equivalent: true}, fields)
	assert.Contains(t, buf.String(), "oracle values differ")
	assert.Contains(t, buf.String(), `"oracle_co2e":300`)
}

func TestReconcile_Agreement(t *testing.T) {
	sel := &oracle.Selection{
		Factor:        scenarioFactor(),
		GasType:       factors.CO2,
		EmissionValue: 200.005,
		CO2Equivalent: 228,
	}
	res, err := New(factors.AR5Table()).Reconcile(context.Background(), measurement(), sel)
	require.NoError(t, err)
	assert.False(t, res.DiscrepancyFlag)
	assert.Empty(t, res.Discrepancies)
}

func TestReconcile_ToleranceOption(t *testing.T) {
	sel := &oracle.Selection{Factor: scenarioFactor(), EmissionValue: 205, CO2Equivalent: 233}
	res, err := New(factors.AR5Table(), WithTolerance(10)).Reconcile(context.Background(), measurement(), sel)
	require.NoError(t, err)
	assert.False(t, res.DiscrepancyFlag)
}

func TestReconcile_OracleGasSelectsEmissionValue(t *testing.T) {
	sel := &oracle.Selection{Factor: scenarioFactor(), GasType: factors.CH4, EmissionValue: 1, CO2Equivalent: 228}
	res, err := New(factors.AR5Table()).Reconcile(context.Background(), measurement(), sel)
	require.NoError(t, err)
	assert.Equal(t, factors.CH4, res.GasType)
	assert.InDelta(t, 1.0, res.EmissionValue, 1e-12)
	assert.False(t, res.DiscrepancyFlag)
}

func TestReconcile_Validation(t *testing.T) {
	c := New(factors.AR5Table())
	bad := measurement()
	bad.Quantity = -3
	_, err := c.Reconcile(context.Background(), bad, &oracle.Selection{Factor: scenarioFactor()})
	assert.True(t, activity.IsValidation(err))

	_, err = c.Reconcile(context.Background(), measurement(), nil)
	assert.Error(t, err)
}

func TestPinned_UnitMismatchWarns(t *testing.T) {
	c := New(factors.AR5Table())
	m := measurement()
	m.Unit = "gallons"

	res, err := c.Pinned(context.Background(), m, scenarioFactor())
	require.NoError(t, err)
	assert.Equal(t, MethodPinned, res.Method)
	assert.InDelta(t, 228.0, res.CO2Equivalent, 1e-9)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "gallons")
	assert.False(t, res.DiscrepancyFlag)
}

func TestPinned_MatchingUnit(t *testing.T) {
	res, err := New(factors.AR5Table()).Pinned(context.Background(), measurement(), scenarioFactor())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestCompare_MissingGasCountsAsZero(t *testing.T) {
	sel := &oracle.Selection{
		Factor:        scenarioFactor(),
		EmissionValue: 10,
		CO2Equivalent: 10,
		PerGas:        map[factors.GasType]float64{factors.N2O: 0.5},
	}
	got := New(factors.AR5Table()).Compare(context.Background(), sel, 10, 10,
		map[factors.GasType]float64{factors.CO2: 10})
	require.Len(t, got, 1)
	assert.Equal(t, "N2O", got[0].Field)
	assert.InDelta(t, 0.5, got[0].Difference, 1e-12)
}

func TestReconcile_UnknownOracleGasFallsBack(t *testing.T) {
	sel := &oracle.Selection{
		Factor:        scenarioFactor(),
		GasType:       factors.N2O,
		EmissionValue: 200,
		CO2Equivalent: 228,
	}
	res, err := New(factors.AR5Table()).Reconcile(context.Background(), measurement(), sel)
	require.NoError(t, err)
	assert.Equal(t, factors.CO2, res.GasType)
	assert.InDelta(t, 200.0, res.EmissionValue, 1e-12)
	assert.False(t, res.DiscrepancyFlag)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "N2O")
}
