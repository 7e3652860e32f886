package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ghgcalc/internal/config"
	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/lca"
)

func TestFromConfig_Defaults(t *testing.T) {
	e, err := FromConfig(context.Background(), config.Default())
	require.NoError(t, err)

	assert.False(t, e.OracleEnabled())
	assert.Equal(t, factors.AR5, e.GWPTable().Report())
	assert.Positive(t, e.Store().Len())
	assert.Equal(t, lca.FormulaSpreadsheet, e.lcaMode)
	assert.Equal(t, DefaultMaxRetries, e.maxRetries)
}

func TestFromConfig_Settings(t *testing.T) {
	cfg := config.Default()
	cfg.Factors.GWPReport = "AR6"
	cfg.LCA.FormulaMode = "methodology"
	cfg.LCA.FossilBaseline = 94
	cfg.Engine.Concurrency = 9
	cfg.Oracle.MaxRetries = 1
	cfg.Reconciliation.Tolerance = 0.5

	e, err := FromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, factors.AR6, e.GWPTable().Report())
	assert.Equal(t, lca.FormulaMethodology, e.lcaMode)
	assert.InDelta(t, 94.0, e.fossilBaseline, 1e-12)
	assert.Equal(t, 9, e.concurrency)
	assert.Equal(t, 1, e.maxRetries)
	assert.InDelta(t, 0.5, e.tolerance, 1e-12)
}

func TestFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{
			name:   "unknown report",
			mutate: func(c *config.Config) { c.Factors.GWPReport = "AR9" },
			want:   factors.ErrUnknownAssessmentReport,
		},
		{
			name:   "bad formula mode",
			mutate: func(c *config.Config) { c.LCA.FormulaMode = "excel" },
			want:   lca.ErrUnknownFormulaMode,
		},
		{
			name: "missing api key",
			mutate: func(c *config.Config) {
				c.Oracle.Provider = config.OracleProviderGenAI
				c.Oracle.APIKeyEnv = "GHGCALC_TEST_UNSET_KEY"
			},
			want: ErrMissingAPIKey,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GHGCALC_TEST_UNSET_KEY", "")
			cfg := config.Default()
			tt.mutate(cfg)
			_, err := FromConfig(context.Background(), cfg)
			require.ErrorIs(t, err, tt.want)
		})
	}

	cfg := config.Default()
	cfg.Oracle.Provider = "openai"
	_, err := FromConfig(context.Background(), cfg)
	require.Error(t, err)

	cfg = config.Default()
	cfg.Factors.Path = "/nonexistent/factors.yaml"
	_, err = FromConfig(context.Background(), cfg)
	require.Error(t, err)
}
