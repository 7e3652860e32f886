package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ghgcalc/internal/config"
)

func TestResolveProjectDir_FlagOverridesEnv(t *testing.T) {
	envDir := t.TempDir()
	flagDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")
	assert.Equal(t, filepath.Join(flagDir, ".ghgcalc"), got)
}

func TestResolveProjectDir_EnvVar(t *testing.T) {
	envDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), "", "/does/not/matter")
	assert.Equal(t, filepath.Join(envDir, ".ghgcalc"), got)
	assert.True(t, filepath.IsAbs(got))
}

func TestResolveProjectDir_NoDoubleAppend(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	dir := filepath.Join(t.TempDir(), ".ghgcalc")

	got := config.ResolveProjectDir(context.Background(), dir, "")
	assert.Equal(t, dir, got)
}

func TestResolveProjectDir_WalkUp(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	root := t.TempDir()
	project := filepath.Join(root, ".ghgcalc")
	nested := filepath.Join(root, "plant", "2024")
	require.NoError(t, os.MkdirAll(project, 0o750))
	require.NoError(t, os.MkdirAll(nested, 0o750))

	got := config.ResolveProjectDir(context.Background(), "", nested)
	assert.Equal(t, project, got)
}

func TestNewWithProjectDir_MergesOverlay(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "config.yaml"),
		[]byte("lca:\n  fossil_baseline: 94\n"), 0o600))

	cfg := config.NewWithProjectDir(context.Background(), project)
	assert.InDelta(t, 94.0, cfg.LCA.FossilBaseline, 1e-12)
	assert.Equal(t, config.FormulaModeSpreadsheet, cfg.LCA.FormulaMode)
}

func TestNewWithProjectDir_BrokenOverlayFallsBack(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "config.yaml"),
		[]byte("lca: [broken\n"), 0o600))

	cfg := config.NewWithProjectDir(context.Background(), project)
	assert.InDelta(t, 83.8, cfg.LCA.FossilBaseline, 1e-12)
}

func TestNewWithProjectDir_Empty(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	cfg := config.NewWithProjectDir(context.Background(), "")
	assert.Equal(t, config.Default().Engine, cfg.Engine)
}
