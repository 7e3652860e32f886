package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ghgcalc/internal/factors"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantID  string
		wantCO2 float64
		wantErr bool
	}{
		{
			name:    "bare object",
			text:    `{"chosenFactorIdentifier":"f1","gasType":"CO2","emissionValue":200,"co2Equivalent":228}`,
			wantID:  "f1",
			wantCO2: 228,
		},
		{
			name:    "fenced with language",
			text:    "```json\n{\"chosenFactorIdentifier\":\"f1\",\"emissionValue\":1,\"co2Equivalent\":2}\n```",
			wantID:  "f1",
			wantCO2: 2,
		},
		{
			name:    "prose around object",
			text:    "Sure! Here it is: {\"chosen_factor_id\":\"f2\",\"emission_value\":\"3.5\",\"co2e\":4} Hope that helps {x}",
			wantID:  "f2",
			wantCO2: 4,
		},
		{
			name:    "braces inside strings",
			text:    `{"chosenFactorIdentifier":"f3","explanation":"uses {coal} and \"}\"","emissionValue":1,"co2Equivalent":1}`,
			wantID:  "f3",
			wantCO2: 1,
		},
		{name: "no json", text: "I cannot decide.", wantErr: true},
		{name: "unbalanced", text: `{"chosenFactorIdentifier":"f1"`, wantErr: true},
		{name: "missing id", text: `{"emissionValue":1,"co2Equivalent":1}`, wantErr: true},
		{name: "missing co2e", text: `{"chosenFactorIdentifier":"f1","emissionValue":1}`, wantErr: true},
		{name: "non numeric", text: `{"chosenFactorIdentifier":"f1","emissionValue":"lots","co2Equivalent":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseReply(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrOracleParseError)
				assert.False(t, IsRetryable(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, r.ChosenFactorID)
			assert.InDelta(t, tt.wantCO2, r.CO2Equivalent, 1e-12)
		})
	}
}

func TestParseReply_PerGas(t *testing.T) {
	r, err := ParseReply(`{"chosenFactorIdentifier":"f1","emissionValue":200,"co2Equivalent":228,
		"perGas":{"co2":200,"methane":"1"}}`)
	require.NoError(t, err)
	assert.Equal(t, map[factors.GasType]float64{factors.CO2: 200, factors.CH4: 1}, r.PerGas)

	_, err = ParseReply(`{"chosenFactorIdentifier":"f1","emissionValue":1,"co2Equivalent":1,"perGas":{"CO2":"x"}}`)
	assert.ErrorIs(t, err, ErrOracleParseError)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`  {"a":1}  `))
}
