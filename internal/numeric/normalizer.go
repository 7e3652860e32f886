// Package numeric parses locale-formatted activity quantities into float64.
//
// Every standard module fixes one Convention up front. The convention only
// matters when a value carries both separators; a single separator that
// occurs once is always read as the decimal mark, and a separator that
// occurs more than once is always read as digit grouping.
package numeric

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Convention selects how a value containing both ',' and '.' is read.
type Convention int

const (
	// European reads '.' as the thousands separator and ',' as the decimal
	// mark: "1.234,5" is 1234.5. Used by the IPCC and DEFRA modules.
	European Convention = iota

	// US reads ',' as the thousands separator and '.' as the decimal mark:
	// "1,234.5" is 1234.5. Used by the ISCC and ISO 14064 modules.
	US
)

// String returns the convention name.
func (c Convention) String() string {
	switch c {
	case European:
		return "european"
	case US:
		return "us"
	default:
		return "Convention(" + strconv.Itoa(int(c)) + ")"
	}
}

// Parser converts raw inputs using a fixed Convention.
// The zero value uses the European convention.
type Parser struct {
	convention Convention
}

// NewParser returns a Parser bound to convention c.
func NewParser(c Convention) Parser {
	return Parser{convention: c}
}

// Convention reports the convention the parser was built with.
func (p Parser) Convention() Convention {
	return p.convention
}

// Parse converts raw to a finite float64.
//
// Accepted inputs are strings, *string, json.Number, every Go numeric type,
// and nil. Nil, empty, unparsable, NaN and infinite inputs all yield 0.
// Parse never rounds.
func (p Parser) Parse(raw any) float64 {
	v, _ := p.ParseOK(raw)
	return v
}

// ParseOK is Parse that also reports whether raw held a usable number.
// Callers that must tell "0" apart from "missing" use this form.
func (p Parser) ParseOK(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case string:
		return p.parseString(v)
	case *string:
		if v == nil {
			return 0, false
		}
		return p.parseString(*v)
	case json.Number:
		return p.parseString(v.String())
	case []byte:
		return p.parseString(string(v))
	case bool:
		// cast would turn true into 1; a boolean is not a quantity.
		return 0, false
	}

	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

// parseString applies the separator rules described on the package.
func (p Parser) parseString(s string) (float64, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\u00a0', '\u202f', '\'':
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0, false
	}

	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		if p.convention == US {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
