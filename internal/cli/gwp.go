package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/ghgcalc/internal/config"
	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/report"
)

func newGWPCmd() *cobra.Command {
	var (
		assessment string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "gwp",
		Short: "Show a global warming potential table",
		Example: `  # The configured table
  ghgcalc gwp

  # AR6 values as JSON
  ghgcalc gwp --report AR6 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			format, err := outputFormat(output, cfg)
			if err != nil {
				return err
			}
			name := assessment
			if name == "" {
				name = cfg.Factors.GWPReport
			}
			table, err := factors.GWPTableFor(name)
			if err != nil {
				return err
			}

			r := report.NewRenderer(cmd.OutOrStdout(), cfg.Output.Precision)
			if format == report.FormatJSON {
				return r.JSON(table.Values())
			}
			return r.GWP(table)
		},
	}

	cmd.Flags().StringVar(&assessment, "report", "", "IPCC assessment report: AR4, AR5 or AR6 (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table or json (default from config)")

	return cmd
}
