package config

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// Validate checks every section and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(field string, value any, reason string) {
		errs = append(errs, &FieldError{Field: field, Value: value, Reason: reason})
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil || c.Logging.Level == "" {
		add("logging.level", c.Logging.Level, "must be trace, debug, info, warn or error")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "text":
	default:
		add("logging.format", c.Logging.Format, "must be json or console")
	}

	switch c.Output.DefaultFormat {
	case "table", "json":
	default:
		add("output.default_format", c.Output.DefaultFormat, "must be table or json")
	}
	if c.Output.Precision < 0 || c.Output.Precision > 10 {
		add("output.precision", c.Output.Precision, "must be between 0 and 10")
	}

	switch c.Oracle.Provider {
	case OracleProviderNone:
	case OracleProviderGenAI:
		if c.Oracle.Model == "" {
			add("oracle.model", c.Oracle.Model, "required for the genai provider")
		}
		if c.Oracle.APIKeyEnv == "" {
			add("oracle.api_key_env", c.Oracle.APIKeyEnv, "required for the genai provider")
		}
	default:
		add("oracle.provider", c.Oracle.Provider, "must be none or genai")
	}
	if c.Oracle.TimeoutSeconds <= 0 {
		add("oracle.timeout_seconds", c.Oracle.TimeoutSeconds, "must be positive")
	}
	if c.Oracle.MaxRetries < 0 {
		add("oracle.max_retries", c.Oracle.MaxRetries, "must not be negative")
	}

	if c.Cache.Enabled && c.Cache.TTLSeconds <= 0 {
		add("cache.ttl_seconds", c.Cache.TTLSeconds, "must be positive when the cache is enabled")
	}

	switch strings.ToUpper(c.Factors.GWPReport) {
	case "AR4", "AR5", "AR6":
	default:
		add("factors.gwp_report", c.Factors.GWPReport, "must be AR4, AR5 or AR6")
	}

	if c.Reconciliation.Tolerance < 0 {
		add("reconciliation.tolerance", c.Reconciliation.Tolerance, "must not be negative")
	}

	if c.LCA.FossilBaseline <= 0 {
		add("lca.fossil_baseline", c.LCA.FossilBaseline, "must be positive")
	}
	switch c.LCA.FormulaMode {
	case FormulaModeSpreadsheet, FormulaModeMethodology:
	default:
		add("lca.formula_mode", c.LCA.FormulaMode, "must be spreadsheet or methodology")
	}

	if c.Engine.Concurrency < 1 {
		add("engine.concurrency", c.Engine.Concurrency, "must be at least 1")
	}

	return errors.Join(errs...)
}
