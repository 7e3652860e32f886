package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/ghgcalc/internal/config"
	"github.com/rshade/ghgcalc/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the ghgcalc CLI.
// It loads configuration, wires up logging and tracing, and registers the
// calculate, lca, factors, gwp and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "ghgcalc",
		Short:   "Greenhouse-gas emission calculator",
		Long:    "ghgcalc: Calculate and reconcile GHG emissions under IPCC, DEFRA, ISO 14064 and ISCC PLUS",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $GHGCALC_HOME/config.yaml)")
	cmd.PersistentFlags().String("project-dir", "", "project directory holding a .ghgcalc overlay")
	cmd.AddCommand(newCalculateCmd(), newLCACmd(), newFactorsCmd(), newGWPCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Calculate DEFRA emissions for a list of activities
  ghgcalc calculate --standard defra --input activities.yaml

  # Same, as JSON, with metrics written for the node exporter
  ghgcalc calculate --input activities.toml --output json --metrics-file ghgcalc.prom

  # Evaluate the ISCC corn-to-ethanol pathway
  ghgcalc lca --input plant.yaml --formula-mode methodology

  # Browse emission factors
  ghgcalc factors list --standard ipcc --category coal

  # Show the AR6 GWP table
  ghgcalc gwp --report AR6

  # Initialize configuration
  ghgcalc config init`

// loadConfig resolves the active configuration. An explicit --config file
// must parse; otherwise the user config and project overlay are merged and
// broken files fall back to defaults.
func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg.ApplyEnv()
		if cfg.Cache.Directory == "" {
			if dir, dirErr := config.GetCacheDir(); dirErr == nil {
				cfg.Cache.Directory = dir
			}
		}
		config.SetGlobalConfig(cfg)
		return nil
	}

	projectFlag, _ := cmd.Flags().GetString("project-dir")
	cwd, _ := os.Getwd()
	projectDir := config.ResolveProjectDir(cmd.Context(), projectFlag, cwd)
	config.SetGlobalConfig(config.NewWithProjectDir(cmd.Context(), projectDir))
	return nil
}
