package factors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

//nolint:gochecknoglobals // Schema statements, executed in order.
var sqliteSchema = []string{`CREATE TABLE IF NOT EXISTS emission_factors (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	standard   TEXT NOT NULL,
	year       INTEGER NOT NULL,
	gas_type   TEXT NOT NULL,
	unit       TEXT NOT NULL,
	tier       TEXT NOT NULL DEFAULT '',
	categories TEXT NOT NULL DEFAULT '',
	source     TEXT NOT NULL DEFAULT ''
)`, `CREATE TABLE IF NOT EXISTS factor_gases (
	factor_id TEXT NOT NULL REFERENCES emission_factors(id),
	gas       TEXT NOT NULL,
	value     REAL NOT NULL,
	PRIMARY KEY (factor_id, gas)
)`}

// categorySep joins categories in the single categories column.
const categorySep = ";"

// LoadSQLite reads every factor from a SQLite database written by
// WriteSQLite (or by hand with the same schema). Rows come back in insertion
// order.
func LoadSQLite(ctx context.Context, path string) ([]EmissionFactor, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("factor database: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, `SELECT id, name, standard, year, gas_type, unit, tier, categories, source
		FROM emission_factors ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("select factors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []EmissionFactor
	index := map[string]int{}
	for rows.Next() {
		var (
			f          EmissionFactor
			std, gas   string
			tier, cats string
		)
		if err := rows.Scan(&f.ID, &f.Name, &std, &f.Year, &gas, &f.Unit, &tier, &cats, &f.Source); err != nil {
			return nil, fmt.Errorf("scan factor: %w", err)
		}
		f.Standard = Standard(std)
		f.GasType = GasType(gas)
		f.Tier = Tier(tier)
		for _, c := range strings.Split(cats, categorySep) {
			if c = strings.TrimSpace(c); c != "" {
				f.Categories = append(f.Categories, c)
			}
		}
		f.PerGas = map[GasType]float64{}
		index[f.ID] = len(out)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate factors: %w", err)
	}

	gasRows, err := db.QueryContext(ctx, `SELECT factor_id, gas, value FROM factor_gases`)
	if err != nil {
		return nil, fmt.Errorf("select factor gases: %w", err)
	}
	defer func() { _ = gasRows.Close() }()
	for gasRows.Next() {
		var (
			id, gas string
			value   float64
		)
		if err := gasRows.Scan(&id, &gas, &value); err != nil {
			return nil, fmt.Errorf("scan factor gas: %w", err)
		}
		i, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("%w: factor_gases references unknown factor %q", ErrInvalidFactor, id)
		}
		out[i].PerGas[GasType(gas)] = value
	}
	if err := gasRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate factor gases: %w", err)
	}

	for i := range out {
		out[i] = normalizeFactor(out[i])
	}
	return out, nil
}

// WriteSQLite creates (or extends) a SQLite factor database at path.
func WriteSQLite(ctx context.Context, path string, factors []EmissionFactor) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create factor tables: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, f := range factors {
		if err := f.Validate(); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO emission_factors
			(id, name, standard, year, gas_type, unit, tier, categories, source)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.Name, string(f.Standard), f.Year, string(f.GasType), f.Unit,
			string(f.Tier), strings.Join(f.Categories, categorySep), f.Source); err != nil {
			return fmt.Errorf("insert factor %s: %w", f.ID, err)
		}
		for _, g := range f.Gases() {
			if _, err := tx.ExecContext(ctx, `INSERT INTO factor_gases (factor_id, gas, value) VALUES (?, ?, ?)`,
				f.ID, string(g), f.PerGas[g]); err != nil {
				return fmt.Errorf("insert gas %s for %s: %w", g, f.ID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
