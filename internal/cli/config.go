package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/ghgcalc/internal/config"
	"github.com/rshade/ghgcalc/internal/report"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ghgcalc configuration",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd(), newConfigValidateCmd())
	return cmd
}

// newConfigInitCmd creates the config init command. Inside a project (a
// directory tree holding .ghgcalc/, or one named by --project-dir) it writes
// the project overlay; otherwise $GHGCALC_HOME/config.yaml.
func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Example: `  # Create the user configuration
  ghgcalc config init

  # Create a project overlay
  ghgcalc config init --project-dir .

  # Overwrite an existing file
  ghgcalc config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, projectDir, err := configInitPath(cmd, global)
			if err != nil {
				return err
			}

			if !force {
				_, statErr := os.Stat(path)
				if statErr == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				}
				if !os.IsNotExist(statErr) {
					return fmt.Errorf("cannot access config path %s: %w", path, statErr)
				}
			}

			if err := config.Default().Save(path); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			cmd.Printf("Configuration initialized at %s\n", path)

			if projectDir != "" {
				created, gitErr := config.EnsureGitignore(projectDir)
				if gitErr != nil {
					return fmt.Errorf("failed to create .gitignore: %w", gitErr)
				}
				if created {
					cmd.Printf("Created .gitignore to keep cache and logs out of version control\n")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "write the user configuration even inside a project")

	return cmd
}

// configInitPath returns the file to write and, for a project overlay, its
// .ghgcalc directory.
func configInitPath(cmd *cobra.Command, global bool) (string, string, error) {
	if !global {
		projectFlag, _ := cmd.Flags().GetString("project-dir")
		cwd, _ := os.Getwd()
		if dir := config.ResolveProjectDir(cmd.Context(), projectFlag, cwd); dir != "" {
			return filepath.Join(dir, "config.yaml"), dir, nil
		}
	}
	path, err := config.GetConfigPath()
	return path, "", err
}

func newConfigShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Prints the configuration after merging the user file, project overlay and environment.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if output == report.FormatJSON {
				return report.NewRenderer(cmd.OutOrStdout(), 0).JSON(cfg)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")

	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: the config file must parse and every
setting must be in range.`,
		Example: `  # Validate current configuration
  ghgcalc config validate

  # Validate and show detailed information
  ghgcalc config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if path := cfg.Path(); path != "" {
				if _, err := os.Stat(path); err == nil {
					if _, loadErr := config.Load(path); loadErr != nil {
						return fmt.Errorf("configuration validation failed: %w", loadErr)
					}
				}
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}

			cmd.Printf("Configuration is valid\n")
			if verbose {
				printVerboseDetails(cmd, cfg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// printVerboseDetails prints a summary of the effective configuration.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	if cfg.Path() != "" {
		cmd.Printf("  Config file: %s\n", cfg.Path())
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Factors.Path != "" {
		cmd.Printf("  Factor dataset: %s\n", cfg.Factors.Path)
	} else {
		cmd.Println("  Factor dataset: built-in")
	}
	cmd.Printf("  GWP report: %s\n", cfg.Factors.GWPReport)
	cmd.Printf("  Oracle: %s", cfg.Oracle.Provider)
	if cfg.Oracle.Provider == config.OracleProviderGenAI {
		cmd.Printf(" (%s, %ds timeout, %d retries)", cfg.Oracle.Model, cfg.Oracle.TimeoutSeconds, cfg.Oracle.MaxRetries)
	}
	cmd.Println()
	cmd.Printf("  Reconciliation tolerance: %g\n", cfg.Reconciliation.Tolerance)
	cmd.Printf("  LCA formula mode: %s\n", cfg.LCA.FormulaMode)
}
