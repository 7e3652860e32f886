// Package config loads ghgcalc settings from $GHGCALC_HOME/config.yaml,
// an optional project overlay and GHGCALC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Oracle providers.
const (
	OracleProviderNone  = "none"
	OracleProviderGenAI = "genai"
)

// LCA formula modes, mirrored from the lca package so config stays a leaf.
const (
	FormulaModeSpreadsheet = "spreadsheet"
	FormulaModeMethodology = "methodology"
)

const (
	defaultFossilBaseline = 83.8
	defaultTolerance      = 0.01
	defaultOracleModel    = "gemini-2.5-flash"
	defaultOracleTimeout  = 30
	defaultOracleRetries  = 3
	defaultCacheTTL       = 24 * 60 * 60
	defaultPrecision      = 2
	defaultConcurrency    = 4
	outputTypeFile        = "file"
)

// Config is the full ghgcalc configuration.
type Config struct {
	Logging        LoggingConfig        `yaml:"logging"        json:"logging"`
	Output         OutputConfig         `yaml:"output"         json:"output"`
	Oracle         OracleConfig         `yaml:"oracle"         json:"oracle"`
	Cache          CacheConfig          `yaml:"cache"          json:"cache"`
	Factors        FactorsConfig        `yaml:"factors"        json:"factors"`
	Reconciliation ReconciliationConfig `yaml:"reconciliation" json:"reconciliation"`
	LCA            LCAConfig            `yaml:"lca"            json:"lca"`
	Engine         EngineConfig         `yaml:"engine"         json:"engine"`

	configPath string
}

// LoggingConfig controls log level, format and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"          json:"level"`
	Format string `yaml:"format"         json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Precision     int    `yaml:"precision"      json:"precision"`
}

// OracleConfig selects and tunes the factor-selection oracle.
type OracleConfig struct {
	Provider       string `yaml:"provider"        json:"provider"`
	Model          string `yaml:"model"           json:"model"`
	APIKeyEnv      string `yaml:"api_key_env"     json:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"     json:"max_retries"`
}

// Timeout returns the per-call oracle timeout.
func (o OracleConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// CacheConfig controls the on-disk oracle reply cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"             json:"enabled"`
	Directory  string `yaml:"directory,omitempty" json:"directory,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds"         json:"ttl_seconds"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// FactorsConfig points at the factor dataset and GWP report.
type FactorsConfig struct {
	Path      string `yaml:"path,omitempty" json:"path,omitempty"`
	GWPReport string `yaml:"gwp_report"     json:"gwp_report"`
}

// ReconciliationConfig tunes oracle/recompute comparison.
type ReconciliationConfig struct {
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
}

// LCAConfig holds ISCC pathway defaults.
type LCAConfig struct {
	FossilBaseline float64 `yaml:"fossil_baseline" json:"fossil_baseline"`
	FormulaMode    string  `yaml:"formula_mode"    json:"formula_mode"`
}

// EngineConfig bounds batch concurrency.
type EngineConfig struct {
	Concurrency int `yaml:"concurrency" json:"concurrency"`
}

// Default returns a Config populated with built-in defaults only.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Output:  OutputConfig{DefaultFormat: "table", Precision: defaultPrecision},
		Oracle: OracleConfig{
			Provider:       OracleProviderNone,
			Model:          defaultOracleModel,
			APIKeyEnv:      "GEMINI_API_KEY",
			TimeoutSeconds: defaultOracleTimeout,
			MaxRetries:     defaultOracleRetries,
		},
		Cache:          CacheConfig{Enabled: true, TTLSeconds: defaultCacheTTL},
		Factors:        FactorsConfig{GWPReport: "AR5"},
		Reconciliation: ReconciliationConfig{Tolerance: defaultTolerance},
		LCA:            LCAConfig{FossilBaseline: defaultFossilBaseline, FormulaMode: FormulaModeSpreadsheet},
		Engine:         EngineConfig{Concurrency: defaultConcurrency},
	}
}

// New returns the defaults, overlaid with the user config file when it exists
// and then with environment overrides. A broken config file is ignored so
// the CLI can still start and report it through `config validate`.
func New() *Config {
	cfg := Default()
	if dir, err := GetConfigDir(); err == nil {
		path := filepath.Join(dir, "config.yaml")
		cfg.configPath = path
		if _, statErr := os.Stat(path); statErr == nil {
			_ = ShallowMergeYAML(cfg, path)
		}
	}
	cfg.ApplyEnv()
	if cfg.Cache.Directory == "" {
		if dir, err := GetCacheDir(); err == nil {
			cfg.Cache.Directory = dir
		}
	}
	return cfg
}

// Load reads path on top of the defaults. Unlike New it reports file errors.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.configPath
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	c.configPath = path
	return nil
}
