package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateEquivalencies(t *testing.T) {
	tests := []struct {
		name       string
		kg         float64
		wantMiles  float64
		wantPhones float64
		wantEmpty  bool
		wantErr    error
	}{
		{name: "reference value", kg: 150, wantMiles: 781.25, wantPhones: 18248.18},
		{name: "threshold", kg: 1, wantMiles: 5.208, wantPhones: 121.65},
		{name: "below threshold", kg: 0.5, wantEmpty: true},
		{name: "zero", kg: 0, wantEmpty: true},
		{name: "negative", kg: -1, wantEmpty: true, wantErr: ErrNegativeValue},
		{name: "infinite", kg: math.Inf(1), wantEmpty: true, wantErr: ErrCalculationOverflow},
		{name: "nan", kg: math.NaN(), wantEmpty: true, wantErr: ErrCalculationOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := CalculateEquivalencies(tt.kg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantEmpty, out.IsEmpty)
			if tt.wantEmpty {
				assert.Empty(t, out.Results)
				return
			}
			require.Len(t, out.Results, 2)
			assert.InEpsilon(t, tt.wantMiles, out.Results[0].Value, 0.01)
			assert.InEpsilon(t, tt.wantPhones, out.Results[1].Value, 0.01)
			assert.Equal(t, EquivalencyMilesDriven, out.Results[0].Type)
			assert.Equal(t, "smartphones charged", out.Results[1].Label)
		})
	}
}

func TestCalculateEquivalencies_Text(t *testing.T) {
	out, err := CalculateEquivalencies(150)
	require.NoError(t, err)
	assert.Equal(t, "Equivalent to driving ~781 miles or charging ~18,248 smartphones", out.DisplayText)
	assert.Equal(t, "(≈ 781 mi, 18,248 phones)", out.CompactText)

	out, err = CalculateEquivalencies(2440680)
	require.NoError(t, err)
	assert.Contains(t, out.DisplayText, "~12.7 million miles")
	assert.Contains(t, out.DisplayText, "~296.9 million smartphones")
}

func TestEquivalencyType_String(t *testing.T) {
	assert.Equal(t, "MilesDriven", EquivalencyMilesDriven.String())
	assert.Equal(t, "SmartphonesCharged", EquivalencySmartphonesCharged.String())
	assert.Equal(t, "EquivalencyType(9)", EquivalencyType(9).String())
}
