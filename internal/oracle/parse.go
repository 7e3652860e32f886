package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/rshade/ghgcalc/internal/factors"
)

// Reply is the decoded oracle JSON before the chosen factor is resolved.
type Reply struct {
	ChosenFactorID string
	GasType        string
	EmissionValue  float64
	CO2Equivalent  float64
	Unit           string
	Formula        string
	Explanation    string
	PerGas         map[factors.GasType]float64
}

// Field aliases accepted for each reply field, checked in order.
//
//nolint:gochecknoglobals // Lookup tables.
var (
	idKeys          = []string{"chosenFactorIdentifier", "chosen_factor_identifier", "chosenFactorId", "chosen_factor_id", "factorId", "factor_id"}
	gasKeys         = []string{"gasType", "gas_type", "gas"}
	emissionKeys    = []string{"emissionValue", "emission_value", "emission"}
	co2eKeys        = []string{"co2Equivalent", "co2_equivalent", "co2e"}
	unitKeys        = []string{"unit"}
	formulaKeys     = []string{"formula"}
	explanationKeys = []string{"explanation", "reasoning"}
	perGasKeys      = []string{"perGas", "per_gas", "breakdown"}
)

// ParseReply extracts the first JSON object from text, tolerating markdown
// fences and prose around it.
func ParseReply(text string) (Reply, error) {
	raw := extractJSONObject(stripCodeFences(text))
	if raw == "" {
		return Reply{}, fmt.Errorf("%w: no JSON object in reply", ErrOracleParseError)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrOracleParseError, err)
	}

	var r Reply
	var err error
	r.ChosenFactorID = strings.TrimSpace(cast.ToString(first(m, idKeys)))
	if r.ChosenFactorID == "" {
		return Reply{}, fmt.Errorf("%w: chosenFactorIdentifier is missing", ErrOracleParseError)
	}
	r.GasType = strings.TrimSpace(cast.ToString(first(m, gasKeys)))
	if r.EmissionValue, err = number(m, emissionKeys); err != nil {
		return Reply{}, err
	}
	if r.CO2Equivalent, err = number(m, co2eKeys); err != nil {
		return Reply{}, err
	}
	r.Unit = cast.ToString(first(m, unitKeys))
	r.Formula = cast.ToString(first(m, formulaKeys))
	r.Explanation = cast.ToString(first(m, explanationKeys))

	if v := first(m, perGasKeys); v != nil {
		gases, mapErr := cast.ToStringMapE(v)
		if mapErr != nil {
			return Reply{}, fmt.Errorf("%w: perGas: %w", ErrOracleParseError, mapErr)
		}
		r.PerGas = make(map[factors.GasType]float64, len(gases))
		for g, val := range gases {
			f, numErr := cast.ToFloat64E(val)
			if numErr != nil {
				return Reply{}, fmt.Errorf("%w: perGas.%s: %w", ErrOracleParseError, g, numErr)
			}
			r.PerGas[factors.NormalizeGas(g)] = f
		}
	}
	return r, nil
}

func first(m map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// number requires the field; a missing or non-numeric value is a parse error.
func number(m map[string]any, keys []string) (float64, error) {
	v := first(m, keys)
	if v == nil {
		return 0, fmt.Errorf("%w: %s is missing", ErrOracleParseError, keys[0])
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrOracleParseError, keys[0], err)
	}
	return f, nil
}

// stripCodeFences removes a surrounding ``` or ```json fence.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "```")
	if start == -1 {
		return s
	}
	rest := s[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl != -1 && !strings.Contains(rest[:nl], "{") {
		rest = rest[nl+1:]
	}
	if end := strings.Index(rest, "```"); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// extractJSONObject returns the first balanced {...} in s, honouring string
// literals and escapes, or "" if there is none.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
