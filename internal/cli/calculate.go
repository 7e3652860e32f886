package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rshade/ghgcalc/internal/config"
	"github.com/rshade/ghgcalc/internal/engine"
	"github.com/rshade/ghgcalc/internal/factors"
	"github.com/rshade/ghgcalc/internal/metrics"
	"github.com/rshade/ghgcalc/internal/report"
)

type calculateParams struct {
	standard    string
	input       string
	output      string
	metricsFile string
	concurrency int
}

func newCalculateCmd() *cobra.Command {
	var params calculateParams

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate emissions for a list of activities",
		Long: `Calculates emissions for every request in the input file under one standard.

Quantities are parsed with the standard's numeric convention: IPCC and DEFRA
inputs use European separators (1.234,5), ISO 14064 and ISCC PLUS use US
separators (1,234.5). A request that fails is reported alongside the others
and never stops the batch.`,
		Example: `  # Calculate DEFRA emissions from a YAML file
  ghgcalc calculate --standard defra --input activities.yaml

  # Read the standard from the file and print JSON
  ghgcalc calculate --input activities.toml --output json

  # Pipe requests on stdin
  cat activities.json | ghgcalc calculate --standard iso --input -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculate(cmd, params)
		},
	}

	cmd.Flags().StringVarP(&params.standard, "standard", "s", "",
		"standard to calculate under: "+standardNames()+" (overrides the file)")
	cmd.Flags().StringVarP(&params.input, "input", "i", "", "request file (.yaml, .json, .toml, or - for stdin)")
	cmd.Flags().StringVarP(&params.output, "output", "o", "", "output format: table or json (default from config)")
	cmd.Flags().StringVar(&params.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format")
	cmd.Flags().IntVar(&params.concurrency, "concurrency", 0, "parallel calculations (default from config)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func standardNames() string {
	names := make([]string, 0, len(factors.Standards()))
	for _, s := range factors.Standards() {
		names = append(names, strings.ToLower(string(s)))
	}
	return strings.Join(names, ", ")
}

func runCalculate(cmd *cobra.Command, params calculateParams) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	format, err := outputFormat(params.output, cfg)
	if err != nil {
		return err
	}

	file, err := loadCalculationFile(params.input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	name := params.standard
	if name == "" {
		name = file.Standard
	}
	if name == "" {
		return errors.New("no standard given: use --standard or set standard in the input file")
	}
	std, err := factors.ParseStandard(name)
	if err != nil {
		return err
	}
	reqs, err := engine.NormalizeAll(std, file.Requests)
	if err != nil {
		return err
	}

	var opts []engine.Option
	if params.concurrency > 0 {
		opts = append(opts, engine.WithConcurrency(params.concurrency))
	}
	var registry *prometheus.Registry
	if params.metricsFile != "" {
		registry = prometheus.NewRegistry()
		rec, recErr := metrics.NewPrometheus(registry)
		if recErr != nil {
			return recErr
		}
		opts = append(opts, engine.WithMetrics(rec))
	}

	eng, err := engine.FromConfig(ctx, cfg, opts...)
	if err != nil {
		return err
	}

	logger.Debug().Ctx(ctx).
		Str("operation", "calculate").
		Str("standard", string(std)).
		Int("requests", len(reqs)).
		Bool("oracle", eng.OracleEnabled()).
		Msg("calculating")

	outcomes, err := eng.CalculateAll(ctx, std, reqs)
	if err != nil {
		return err
	}

	labels := make([]string, len(reqs))
	for i, r := range reqs {
		labels[i] = r.Activity.Label()
	}
	doc := report.Summarize(std, outcomes, labels)

	r := report.NewRenderer(cmd.OutOrStdout(), cfg.Output.Precision)
	if format == report.FormatJSON {
		err = r.JSON(doc)
	} else {
		err = r.Results(doc)
	}
	if err != nil {
		return err
	}

	if registry != nil {
		if err := metrics.WriteTextfile(params.metricsFile, registry); err != nil {
			return err
		}
		logger.Debug().Ctx(ctx).Str("path", params.metricsFile).Msg("metrics written")
	}

	switch {
	case len(doc.Results) == 0:
		return fmt.Errorf("all %d requests failed", len(doc.Failures))
	case len(doc.Failures) > 0:
		return &ExitCodeError{
			ExitCode: ExitPartialFailure,
			Reason:   fmt.Sprintf("%d of %d requests failed", len(doc.Failures), len(reqs)),
		}
	}
	return nil
}

// outputFormat resolves --output against the configured default.
func outputFormat(flag string, cfg *config.Config) (string, error) {
	format := strings.ToLower(flag)
	if format == "" {
		format = strings.ToLower(cfg.Output.DefaultFormat)
	}
	switch format {
	case "", report.FormatTable:
		return report.FormatTable, nil
	case report.FormatJSON:
		return report.FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use table or json", format)
	}
}

