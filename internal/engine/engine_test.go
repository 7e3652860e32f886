package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rshade/ghgcalc/internal/activity"
	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/oracle"
	"github.com/rshade/ghgcalc/internal/reconcile"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testStore(t *testing.T) *factors.Store {
	t.Helper()
	s, err := factors.NewStore(
		factors.EmissionFactor{
			ID: "coal-t1", Name: "Coal", Standard: factors.IPCC2006, Year: 2006,
			GasType: factors.CO2, Unit: "kg/GJ", Tier: factors.Tier1,
			PerGas:     map[factors.GasType]float64{factors.CO2: 94.6, factors.CH4: 0.001},
			Categories: []string{"energy", "stationary combustion", "coal"},
		},
		factors.EmissionFactor{
			ID: "coal-t2", Name: "Coal country-specific", Standard: factors.IPCC2006, Year: 2006,
			GasType: factors.CO2, Unit: "kg/GJ", Tier: factors.Tier2,
			PerGas:     map[factors.GasType]float64{factors.CO2: 95.0},
			Categories: []string{"energy", "stationary combustion", "coal"},
		},
		factors.EmissionFactor{
			ID: "diesel", Name: "Diesel", Standard: factors.DEFRA, Year: 2024,
			GasType: factors.CO2, Unit: "litres",
			PerGas:     map[factors.GasType]float64{factors.CO2: 2.0, factors.CH4: 0.01},
			Categories: []string{"fuels", "diesel"},
		},
		factors.EmissionFactor{
			ID: "diesel-b", Name: "Diesel bio blend", Standard: factors.DEFRA, Year: 2024,
			GasType: factors.CO2, Unit: "litres",
			PerGas:     map[factors.GasType]float64{factors.CO2: 1.9},
			Categories: []string{"fuels", "diesel blends"},
		},
		factors.EmissionFactor{
			ID: "iso-grid", Name: "Grid electricity", Standard: factors.ISO14064, Year: 2023,
			GasType: factors.CO2e, Unit: "kWh",
			PerGas:     map[factors.GasType]float64{factors.CO2e: 0.4},
			Categories: []string{"imported energy", "electricity"},
		},
		factors.EmissionFactor{
			ID: "iso-refrigerant", Name: "R-134a", Standard: factors.ISO14064, Year: 2023,
			GasType: factors.HFC134a, Unit: "kg",
			PerGas:     map[factors.GasType]float64{factors.HFC134a: 1},
			Categories: []string{"fugitive emissions", "refrigerant"},
		},
	)
	require.NoError(t, err)
	return s
}

func dieselRequest() Request {
	return Request{Activity: activity.Measurement{Quantity: 100, Unit: "litres", Category: "diesel", StandardYear: 2024}}
}

// recorder counts metrics events.
type recorder struct {
	mu            sync.Mutex
	calculations  map[bool]int
	oracle        map[string]int
	retries       int
	discrepancies int
	zeroGuarded   int
}

func newRecorder() *recorder {
	return &recorder{calculations: map[bool]int{}, oracle: map[string]int{}}
}

func (r *recorder) ObserveCalculation(_ string, ok bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calculations[ok]++
}

func (r *recorder) ObserveOracle(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.oracle[outcome]++
}

func (r *recorder) ObserveRetry() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retries++
}

func (r *recorder) ObserveDiscrepancy(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discrepancies++
}

func (r *recorder) ObserveZeroGuarded(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.zeroGuarded += n
}

func reply(id string, emission, co2e float64, perGas string) string {
	return fmt.Sprintf("```json\n{\"chosenFactorIdentifier\": %q, \"gasType\": \"CO2\", "+
		"\"emissionValue\": %g, \"co2Equivalent\": %g, \"perGas\": %s, "+
		"\"explanation\": \"closest fuel match\"}\n```", id, emission, co2e, perGas)
}

func newEngine(t *testing.T, o oracle.Oracle, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		withClock(func() time.Time { return fixedNow }),
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	}
	if o != nil {
		base = append(base, WithOracle(oracle.NewAdapter(o, oracle.WithTimeout(time.Second))))
	}
	return New(testStore(t), factors.AR5Table(), append(base, opts...)...)
}

func TestCalculate_IPCCWithoutOracle(t *testing.T) {
	e := newEngine(t, nil)
	res, err := e.Calculate(context.Background(), factors.IPCC2006, Request{
		Activity:     activity.Measurement{Quantity: 1000, Unit: "t", Category: "energy coal"},
		Tier:         factors.Tier1,
		HeatingValue: 25.8,
	})
	require.NoError(t, err)

	assert.InDelta(t, 2440680.0, res.EmissionValue, 1e-6)
	assert.InDelta(t, 2440680.0, res.CO2Equivalent, 1e-6)
	assert.Equal(t, "TIER_1_ENERGY_WITH_HV_AUTO", res.Method)
	assert.Equal(t, "coal-t1", res.FactorUsed.ID)
	assert.Equal(t, factors.IPCC2006, res.Standard)
	assert.Equal(t, fixedNow, res.CalculatedAt)
	assert.Len(t, res.ID, 26)
	assert.Equal(t, 1.0, res.GWPUsed[factors.CO2])
}

func TestCalculate_IPCCOracleSeesTierEligibleEnergy(t *testing.T) {
	var prompt string
	o := oracle.Func(func(_ context.Context, p string) (string, error) {
		prompt = p
		return reply("coal-t1", 2440680, 2440680, `{"CO2": 2440680}`), nil
	})
	e := newEngine(t, o)
	res, err := e.Calculate(context.Background(), factors.IPCC2006, Request{
		Activity:     activity.Measurement{Quantity: 1000, Unit: "t", Category: "energy coal"},
		HeatingValue: 25.8,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "id=coal-t1")
	assert.NotContains(t, prompt, "id=coal-t2")
	assert.Contains(t, prompt, "- quantity: 25800\n")
	assert.Contains(t, prompt, "- unit: GJ\n")
	assert.Equal(t, "TIER_1_ENERGY_WITH_HV_"+reconcile.MethodReconciled, res.Method)
	assert.False(t, res.DiscrepancyFlag)
	assert.Equal(t, "closest fuel match", res.OracleExplanation)
}

func TestCalculate_IPCCOracleDiscrepancy(t *testing.T) {
	o := oracle.Func(func(context.Context, string) (string, error) {
		return reply("coal-t1", 1000, 1000, `{"CO2": 1000, "CH4": 5}`), nil
	})
	rec := newRecorder()
	e := newEngine(t, o, WithMetrics(rec))
	res, err := e.Calculate(context.Background(), factors.IPCC2006, Request{
		Activity:     activity.Measurement{Quantity: 1000, Unit: "t", Category: "energy coal"},
		HeatingValue: 25.8,
	})
	require.NoError(t, err)

	assert.InDelta(t, 2440680.0, res.EmissionValue, 1e-6)
	assert.True(t, res.DiscrepancyFlag)
	fields := make([]string, 0, len(res.Discrepancies))
	for _, d := range res.Discrepancies {
		fields = append(fields, d.Field)
	}
	// CH4 is outside the single-gas tiered result and is not compared.
	assert.ElementsMatch(t, []string{"CO2", reconcile.FieldEmissionValue, reconcile.FieldCO2Equivalent}, fields)
	assert.Equal(t, 1, rec.discrepancies)
}

func TestCalculate_DEFRAReconciled(t *testing.T) {
	o := oracle.Func(func(context.Context, string) (string, error) {
		return reply("diesel", 200, 228, `{"CO2": 200, "CH4": 1}`), nil
	})
	rec := newRecorder()
	e := newEngine(t, o, WithMetrics(rec))
	res, err := e.Calculate(context.Background(), factors.DEFRA, dieselRequest())
	require.NoError(t, err)

	assert.InDelta(t, 228.0, res.CO2Equivalent, 1e-9)
	assert.InDelta(t, 200.0, res.EmissionValue, 1e-12)
	assert.Equal(t, reconcile.MethodReconciled, res.Method)
	assert.False(t, res.DiscrepancyFlag)
	assert.Zero(t, res.ISOCategory)
	assert.Equal(t, 1, rec.oracle["ok"])
	assert.Equal(t, 1, rec.calculations[true])
}

func TestCalculate_OracleValuesNeverReturned(t *testing.T) {
	o := oracle.Func(func(context.Context, string) (string, error) {
		return reply("diesel", 5, 5, `{"CO2": 5}`), nil
	})
	e := newEngine(t, o)
	res, err := e.Calculate(context.Background(), factors.DEFRA, dieselRequest())
	require.NoError(t, err)

	assert.InDelta(t, 228.0, res.CO2Equivalent, 1e-9)
	assert.True(t, res.DiscrepancyFlag)
}

func TestCalculate_RetriesTimeouts(t *testing.T) {
	var calls int32
	o := oracle.Func(func(context.Context, string) (string, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return "", context.DeadlineExceeded
		}
		return reply("diesel", 200, 228, `{}`), nil
	})
	rec := newRecorder()
	e := newEngine(t, o, WithMetrics(rec), WithMaxRetries(3))
	res, err := e.Calculate(context.Background(), factors.DEFRA, dieselRequest())
	require.NoError(t, err)

	assert.InDelta(t, 228.0, res.CO2Equivalent, 1e-9)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, 2, rec.retries)
	assert.Equal(t, 2, rec.oracle["timeout"])
}

func TestCalculate_RetriesExhausted(t *testing.T) {
	var calls int32
	o := oracle.Func(func(context.Context, string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", context.DeadlineExceeded
	})
	e := newEngine(t, o, WithMaxRetries(2))
	_, err := e.Calculate(context.Background(), factors.DEFRA, dieselRequest())
	require.ErrorIs(t, err, oracle.ErrOracleTimeout)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCalculate_TerminalOracleErrorsNotRetried(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  error
	}{
		{name: "empty", reply: "  ", want: oracle.ErrOracleEmptyResponse},
		{name: "prose", reply: "I think diesel.", want: oracle.ErrOracleParseError},
		{name: "unknown factor", reply: reply("petrol", 1, 1, `{}`), want: oracle.ErrOracleFactorNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			o := oracle.Func(func(context.Context, string) (string, error) {
				atomic.AddInt32(&calls, 1)
				return tt.reply, nil
			})
			e := newEngine(t, o)
			_, err := e.Calculate(context.Background(), factors.DEFRA, dieselRequest())
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestCalculate_DirectWithoutOracle(t *testing.T) {
	e := newEngine(t, nil)
	res, err := e.Calculate(context.Background(), factors.DEFRA, dieselRequest())
	require.NoError(t, err)

	assert.Equal(t, "diesel", res.FactorUsed.ID)
	assert.Equal(t, reconcile.MethodRecomputed+"_AUTO", res.Method)
	assert.InDelta(t, 228.0, res.CO2Equivalent, 1e-9)
}

func TestCalculate_Pinned(t *testing.T) {
	o := oracle.Func(func(context.Context, string) (string, error) {
		t.Fatal("oracle must not be called for a pinned factor")
		return "", nil
	})
	e := newEngine(t, o)

	req := dieselRequest()
	req.PinnedFactor = "diesel-b"
	res, err := e.Calculate(context.Background(), factors.DEFRA, req)
	require.NoError(t, err)
	assert.Equal(t, reconcile.MethodPinned, res.Method)
	assert.InDelta(t, 190.0, res.CO2Equivalent, 1e-9)

	req = Request{
		Activity:     activity.Measurement{Quantity: 1000, Unit: "t", Category: "energy coal"},
		PinnedFactor: "coal-t2",
		HeatingValue: 25.8,
	}
	res, err = e.Calculate(context.Background(), factors.IPCC2006, req)
	require.NoError(t, err)
	assert.Equal(t, "TIER_2_ENERGY_WITH_HV_"+reconcile.MethodPinned, res.Method)
	assert.InDelta(t, 1000*25.8*95.0, res.EmissionValue, 1e-6)

	req.PinnedFactor = "missing"
	_, err = e.Calculate(context.Background(), factors.IPCC2006, req)
	require.ErrorIs(t, err, factors.ErrFactorNotFound)
}

func TestCalculate_PinnedFromOtherStandardWarns(t *testing.T) {
	e := newEngine(t, nil)
	want := "pinned factor diesel belongs to DEFRA, not IPCC_2006"

	req := dieselRequest()
	req.PinnedFactor = "diesel"
	res, err := e.Calculate(context.Background(), factors.IPCC2006, req)
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, want)
	assert.InDelta(t, 200.0, res.EmissionValue, 1e-9)

	req = dieselRequest()
	req.PinnedFactor = "coal-t2"
	req.Activity.Category = "energy coal"
	req.Activity.Unit = "t"
	res, err = e.Calculate(context.Background(), factors.IPCC2006, req)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestCalculate_Errors(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	_, err := e.Calculate(ctx, factors.DEFRA, Request{Activity: activity.Measurement{Quantity: -1, Unit: "litres"}})
	assert.True(t, activity.IsValidation(err))

	_, err = e.Calculate(ctx, factors.DEFRA, Request{Activity: activity.Measurement{Quantity: 1, Unit: "barrels", Category: "diesel"}})
	require.ErrorIs(t, err, factors.ErrFactorNotFound)

	_, err = e.Calculate(ctx, factors.Standard("GHG_PROTOCOL"), dieselRequest())
	require.ErrorIs(t, err, factors.ErrUnknownStandard)

	req := dieselRequest()
	req.GasType = factors.N2O
	_, err = e.Calculate(ctx, factors.DEFRA, req)
	require.ErrorIs(t, err, factors.ErrFactorNotFound)
}

func TestCalculate_ISOCategory(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	res, err := e.Calculate(ctx, factors.ISO14064, Request{
		Activity: activity.Measurement{Quantity: 1000, Unit: "kWh", Category: "electricity", StandardYear: 2023},
	})
	require.NoError(t, err)
	assert.Equal(t, int(ISOImportedEnergy), res.ISOCategory)
	assert.Equal(t, ISOImportedEnergy.String(), res.ISOCategoryName)
	assert.InDelta(t, 400.0, res.CO2Equivalent, 1e-9)

	res, err = e.Calculate(ctx, factors.ISO14064, Request{
		Activity: activity.Measurement{Quantity: 2, Unit: "kg", Category: "refrigerant"},
	})
	require.NoError(t, err)
	assert.Equal(t, int(ISODirect), res.ISOCategory)
	assert.InDelta(t, 2*1300.0, res.CO2Equivalent, 1e-9)
}

func TestClassifyISO(t *testing.T) {
	tests := []struct {
		category string
		factor   []string
		want     ISOCategory
	}{
		{"stationary combustion", nil, ISODirect},
		{"purchased electricity", nil, ISOImportedEnergy},
		{"business travel", nil, ISOTransportation},
		{"purchased goods", nil, ISOProductsUsed},
		{"use of sold products", nil, ISOProductsFromOrganization},
		{"indirect other", nil, ISOOtherIndirect},
		{"", []string{"fugitive emissions", "direct"}, ISODirect},
		{"misc", []string{"transportation", "air"}, ISOTransportation},
		{"", nil, ISOOtherIndirect},
	}
	for _, tt := range tests {
		t.Run(tt.category+"/"+strings.Join(tt.factor, ","), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyISO(tt.category, tt.factor))
		})
	}
}

func TestCalculateAll_IsolatesFailures(t *testing.T) {
	o := oracle.Func(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "name: broken") {
			return "no json here", nil
		}
		return reply("diesel", 200, 228, `{}`), nil
	})
	e := newEngine(t, o, WithConcurrency(3))

	reqs := make([]Request, 10)
	for i := range reqs {
		reqs[i] = dieselRequest()
		reqs[i].Activity.ActivityName = fmt.Sprintf("truck %d", i)
	}
	reqs[4].Activity.ActivityName = "broken"
	reqs[7].Activity.Quantity = 0

	out, err := e.CalculateAll(context.Background(), factors.DEFRA, reqs)
	require.NoError(t, err)
	require.Len(t, out, 10)
	for i, o := range out {
		assert.Equal(t, i, o.Index)
		switch i {
		case 4:
			require.ErrorIs(t, o.Err, oracle.ErrOracleParseError)
		case 7:
			assert.True(t, activity.IsValidation(o.Err))
		default:
			require.NoError(t, o.Err)
			assert.InDelta(t, 228.0, o.Value.CO2Equivalent, 1e-9)
			assert.Equal(t, reqs[i].Activity.ActivityName, o.Value.Activity.ActivityName)
		}
	}

	_, err = e.CalculateAll(context.Background(), factors.DEFRA, nil)
	require.ErrorIs(t, err, ErrNoRequests)
}

func TestCalculateAll_Cancelled(t *testing.T) {
	e := newEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.CalculateAll(ctx, factors.DEFRA, []Request{dieselRequest()})
	require.True(t, errors.Is(err, context.Canceled))
}

func TestCalculate_Idempotent(t *testing.T) {
	e := newEngine(t, nil)
	a, err := e.Calculate(context.Background(), factors.DEFRA, dieselRequest())
	require.NoError(t, err)
	b, err := e.Calculate(context.Background(), factors.DEFRA, dieselRequest())
	require.NoError(t, err)
	assert.Equal(t, a.CO2Equivalent, b.CO2Equivalent)
	assert.Equal(t, a.PerGas, b.PerGas)
	assert.NotEqual(t, a.ID, b.ID)
}
