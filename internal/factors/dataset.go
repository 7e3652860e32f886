package factors

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SupportedSchema is the semver constraint a dataset's schema_version must
// satisfy.
const SupportedSchema = "^1.0.0"

//go:embed data/factors.yaml
var defaultDataset []byte

// Dataset is the on-disk form of a factor table.
type Dataset struct {
	SchemaVersion string           `yaml:"schema_version"`
	Description   string           `yaml:"description,omitempty"`
	Factors       []EmissionFactor `yaml:"factors"`
}

// DecodeYAML reads a YAML dataset, checks its schema version and normalises
// gas names.
func DecodeYAML(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decoding factor dataset: %w", err)
	}
	if err := checkSchema(ds.SchemaVersion); err != nil {
		return nil, err
	}
	for i := range ds.Factors {
		ds.Factors[i] = normalizeFactor(ds.Factors[i])
	}
	return &ds, nil
}

// EncodeYAML writes factors as a dataset at the current schema version.
func EncodeYAML(w io.Writer, factors []EmissionFactor) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(Dataset{SchemaVersion: "1.0.0", Factors: factors})
}

// checkSchema enforces SupportedSchema.
func checkSchema(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: schema_version is required", ErrUnsupportedSchema)
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedSchema, v, err)
	}
	c, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !c.Check(ver) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedSchema, ver, SupportedSchema)
	}
	return nil
}

func normalizeFactor(f EmissionFactor) EmissionFactor {
	if f.GasType != "" {
		f.GasType = NormalizeGas(string(f.GasType))
	}
	if len(f.PerGas) > 0 {
		per := make(map[GasType]float64, len(f.PerGas))
		for g, v := range f.PerGas {
			per[NormalizeGas(string(g))] = v
		}
		f.PerGas = per
	}
	if f.Standard != "" {
		if std, err := ParseStandard(string(f.Standard)); err == nil {
			f.Standard = std
		}
	}
	if f.Tier != "" {
		if t, err := ParseTier(string(f.Tier)); err == nil {
			f.Tier = t
		}
	}
	return f
}

// DefaultStore builds a Store from the dataset compiled into the binary.
func DefaultStore() (*Store, error) {
	ds, err := DecodeYAML(bytes.NewReader(defaultDataset))
	if err != nil {
		return nil, fmt.Errorf("embedded dataset: %w", err)
	}
	return NewStore(ds.Factors...)
}

// LoadStore builds a Store from path. Files ending in .db, .sqlite or
// .sqlite3 are read as SQLite databases, everything else as YAML.
// An empty path returns DefaultStore.
func LoadStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return DefaultStore()
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		fs, err := LoadSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return NewStore(fs...)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening factor dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	ds, err := DecodeYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewStore(ds.Factors...)
}
