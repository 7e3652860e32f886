package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/ghgcalc/internal/config"
	"github.com/rshade/ghgcalc/internal/engine"
	"github.com/rshade/ghgcalc/internal/report"
)

type lcaParams struct {
	input          string
	formulaMode    string
	fossilBaseline float64
	nodes          bool
	output         string
	listInputs     bool
}

func newLCACmd() *cobra.Command {
	var params lcaParams

	cmd := &cobra.Command{
		Use:   "lca",
		Short: "Evaluate the ISCC PLUS corn-to-ethanol pathway",
		Long: `Evaluates the ISCC PLUS corn-to-ethanol life-cycle pathway and reports
the emission components in g CO2e/MJ of ethanol with the GHG savings against
the fossil comparator.

Inputs are read with US separators. Inputs the file leaves out take their
defaults; emission-factor inputs default to the factor dataset. Use
--list-inputs to see every input name with its default.`,
		Example: `  # Evaluate a plant's inputs
  ghgcalc lca --input plant.yaml

  # Use the methodology-correct formulas and include every node
  ghgcalc lca --input plant.yaml --formula-mode methodology --nodes

  # List inputs and defaults
  ghgcalc lca --list-inputs`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLCA(cmd, params)
		},
	}

	cmd.Flags().StringVarP(&params.input, "input", "i", "", "pathway input file (.yaml, .json, .toml, or - for stdin)")
	cmd.Flags().StringVar(&params.formulaMode, "formula-mode", "", "spreadsheet or methodology (default from config)")
	cmd.Flags().Float64Var(&params.fossilBaseline, "fossil-baseline", 0, "fossil comparator in g CO2e/MJ")
	cmd.Flags().BoolVar(&params.nodes, "nodes", false, "include every intermediate node value")
	cmd.Flags().StringVarP(&params.output, "output", "o", "", "output format: table or json (default from config)")
	cmd.Flags().BoolVar(&params.listInputs, "list-inputs", false, "list pathway inputs with their defaults")

	return cmd
}

func runLCA(cmd *cobra.Command, params lcaParams) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	format, err := outputFormat(params.output, cfg)
	if err != nil {
		return err
	}
	eng, err := engine.FromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	r := report.NewRenderer(cmd.OutOrStdout(), cfg.Output.Precision)

	if params.listInputs {
		defaults, listErr := eng.LCAInputs()
		if listErr != nil {
			return listErr
		}
		if format == report.FormatJSON {
			return r.JSON(defaults)
		}
		return r.Inputs(defaults)
	}

	req, err := loadLCARequest(params.input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if params.formulaMode != "" {
		req.FormulaMode = params.formulaMode
	}
	if params.fossilBaseline > 0 {
		req.FossilBaseline = params.fossilBaseline
	}
	if params.nodes {
		req.IncludeNodes = true
	}

	res, err := eng.CalculateLCA(ctx, req)
	if err != nil {
		return err
	}
	logger.Debug().Ctx(ctx).
		Str("operation", "lca").
		Str("formula_mode", string(res.FormulaMode)).
		Float64("total", res.Total).
		Msg("pathway evaluated")

	if format == report.FormatJSON {
		return r.JSON(res)
	}
	return r.LCA(res)
}
