package config

import (
	"os"
	"strings"

	"github.com/spf13/cast"
)

// Environment variables that override file settings.
const (
	EnvHome           = "GHGCALC_HOME"
	EnvProjectDir     = "GHGCALC_PROJECT_DIR"
	EnvLogLevel       = "GHGCALC_LOG_LEVEL"
	EnvLogFormat      = "GHGCALC_LOG_FORMAT"
	EnvOracleProvider = "GHGCALC_ORACLE_PROVIDER"
	EnvOracleModel    = "GHGCALC_ORACLE_MODEL"
	EnvOracleTimeout  = "GHGCALC_ORACLE_TIMEOUT"
	EnvFactorsPath    = "GHGCALC_FACTORS_PATH"
	EnvGWPReport      = "GHGCALC_GWP_REPORT"
	EnvConcurrency    = "GHGCALC_CONCURRENCY"
)

// ApplyEnv overlays GHGCALC_* environment variables. Values that fail to
// parse are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOracleProvider); v != "" {
		c.Oracle.Provider = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOracleModel); v != "" {
		c.Oracle.Model = v
	}
	if v := os.Getenv(EnvOracleTimeout); v != "" {
		if n, err := cast.ToIntE(v); err == nil {
			c.Oracle.TimeoutSeconds = n
		}
	}
	if v := os.Getenv(EnvFactorsPath); v != "" {
		c.Factors.Path = v
	}
	if v := os.Getenv(EnvGWPReport); v != "" {
		c.Factors.GWPReport = strings.ToUpper(v)
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		if n, err := cast.ToIntE(v); err == nil {
			c.Engine.Concurrency = n
		}
	}
}
