package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/ghgcalc/internal/config"
	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/report"
)

// Export formats.
const (
	exportYAML   = "yaml"
	exportSQLite = "sqlite"
)

func newFactorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "factors",
		Short: "Inspect and export the emission factor dataset",
		Long: `Inspect the emission factor dataset in use: the one compiled into the binary,
or the file named by factors.path in the configuration.`,
	}
	cmd.AddCommand(newFactorsListCmd(), newFactorsShowCmd(), newFactorsExportCmd())
	return cmd
}

func loadFactorStore(cmd *cobra.Command) (*factors.Store, error) {
	cfg := config.GetGlobalConfig()
	return factors.LoadStore(cmd.Context(), cfg.Factors.Path)
}

func newFactorsListCmd() *cobra.Command {
	var (
		standard string
		year     int
		category string
		unit     string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List emission factors",
		Example: `  # Every factor
  ghgcalc factors list

  # IPCC coal factors
  ghgcalc factors list --standard ipcc --category coal

  # DEFRA 2024 factors per litre, as JSON
  ghgcalc factors list --standard defra --year 2024 --unit litres --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(output, config.GetGlobalConfig())
			if err != nil {
				return err
			}
			store, err := loadFactorStore(cmd)
			if err != nil {
				return err
			}

			var fs []factors.EmissionFactor
			switch {
			case standard != "":
				std, parseErr := factors.ParseStandard(standard)
				if parseErr != nil {
					return parseErr
				}
				fs = store.Lookup(std, year, category, unit)
			case year != 0 || category != "" || unit != "":
				for _, std := range factors.Standards() {
					fs = append(fs, store.Lookup(std, year, category, unit)...)
				}
			default:
				fs = store.All()
			}

			r := report.NewRenderer(cmd.OutOrStdout(), config.GetGlobalConfig().Output.Precision)
			if format == report.FormatJSON {
				return r.JSON(fs)
			}
			return r.Factors(fs)
		},
	}

	cmd.Flags().StringVarP(&standard, "standard", "s", "", "only factors of this standard")
	cmd.Flags().IntVar(&year, "year", 0, "only factors for this year")
	cmd.Flags().StringVar(&category, "category", "", "match a category, ID or name")
	cmd.Flags().StringVar(&unit, "unit", "", "only factors expressed per this unit")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table or json (default from config)")

	return cmd
}

func newFactorsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one emission factor as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadFactorStore(cmd)
			if err != nil {
				return err
			}
			f, err := store.Get(args[0])
			if err != nil {
				return err
			}
			return factors.EncodeYAML(cmd.OutOrStdout(), []factors.EmissionFactor{f})
		},
	}
}

func newFactorsExportCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the factor dataset as YAML or SQLite",
		Long: `Writes the factor dataset in use to a file. Either format can be pointed at
with factors.path (or GHGCALC_FACTORS_PATH) to replace the built-in dataset.`,
		Example: `  # Dump the built-in dataset for editing
  ghgcalc factors export --out factors.yaml

  # Build a SQLite dataset
  ghgcalc factors export --format sqlite --out factors.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := loadFactorStore(cmd)
			if err != nil {
				return err
			}
			fs := store.All()

			switch strings.ToLower(format) {
			case exportYAML:
				if out == "" || out == "-" {
					return factors.EncodeYAML(cmd.OutOrStdout(), fs)
				}
				if err := writeYAMLDataset(out, fs); err != nil {
					return err
				}
			case exportSQLite:
				if out == "" || out == "-" {
					return fmt.Errorf("--out is required for %s export", exportSQLite)
				}
				if err := factors.WriteSQLite(cmd.Context(), out, fs); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported export format %q: use %s or %s", format, exportYAML, exportSQLite)
			}

			logger.Info().Ctx(cmd.Context()).
				Str("operation", "factors_export").
				Str("format", format).
				Str("path", out).
				Int("factors", len(fs)).
				Msg("factor dataset exported")
			cmd.Printf("Exported %d factors to %s\n", len(fs), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", exportYAML, "export format: yaml or sqlite")
	cmd.Flags().StringVar(&out, "out", "", "output file (yaml defaults to stdout)")

	return cmd
}

func writeYAMLDataset(path string, fs []factors.EmissionFactor) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := factors.EncodeYAML(f, fs); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
