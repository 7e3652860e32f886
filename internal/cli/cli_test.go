package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/ghgcalc/internal/cli"
	"github.com/rshade/ghgcalc/internal/config"
)

// setupCLITest isolates the config home and environment and registers
// cleanup for global state. It returns the config home.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv(config.EnvFactorsPath, "")
	t.Setenv(config.EnvOracleProvider, config.OracleProviderNone)
	t.Setenv(config.EnvGWPReport, "")
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// writeFile writes content to name under a fresh temp dir.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCmd_Help(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"calculate", "lca", "factors", "gwp", "config"} {
		require.Contains(t, out, sub)
	}
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "gwp")
	require.Error(t, err)
	require.Contains(t, err.Error(), "loading config")
}
