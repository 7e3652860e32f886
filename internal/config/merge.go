package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyLogging        = "logging"
	keyOutput         = "output"
	keyOracle         = "oracle"
	keyCache          = "cache"
	keyFactors        = "factors"
	keyReconciliation = "reconciliation"
	keyLCA            = "lca"
	keyEngine         = "engine"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A key present in the overlay replaces the whole section, starting
// from that section's defaults; absent keys leave target unchanged. Unknown
// keys are ignored.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}
	return ShallowMergeBytes(target, data)
}

// ShallowMergeBytes is ShallowMergeYAML over in-memory YAML.
func ShallowMergeBytes(target *Config, data []byte) error {
	var overlay map[string]yaml.Node
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML: %w", err)
	}

	for key, node := range overlay {
		if err := mergeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// mergeSection decodes node into a fresh copy of the section's defaults so a
// partial section keeps defaults for the fields it omits but never inherits
// values from target.
func mergeSection(target *Config, key string, node *yaml.Node) error {
	d := Default()
	switch key {
	case keyLogging:
		v := d.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyOutput:
		v := d.Output
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Output = v
	case keyOracle:
		v := d.Oracle
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Oracle = v
	case keyCache:
		v := d.Cache
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Cache = v
	case keyFactors:
		v := d.Factors
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Factors = v
	case keyReconciliation:
		v := d.Reconciliation
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Reconciliation = v
	case keyLCA:
		v := d.LCA
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.LCA = v
	case keyEngine:
		v := d.Engine
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Engine = v
	}
	return nil
}
