package numeric

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_European(t *testing.T) {
	p := NewParser(European)

	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "thousands dot decimal comma", raw: "1.234,5", want: 1234.5},
		{name: "empty string", raw: "", want: 0},
		{name: "nil", raw: nil, want: 0},
		{name: "decimal comma only", raw: "12,75", want: 12.75},
		{name: "decimal dot only", raw: "12.75", want: 12.75},
		{name: "repeated dots are grouping", raw: "1.234.567", want: 1234567},
		{name: "repeated dots with decimal comma", raw: "1.234.567,89", want: 1234567.89},
		{name: "surrounding whitespace", raw: "  42 ", want: 42},
		{name: "non-breaking space grouping", raw: "1\u00a0234,5", want: 1234.5},
		{name: "leading plus", raw: "+3,5", want: 3.5},
		{name: "negative", raw: "-0,25", want: -0.25},
		{name: "scientific", raw: "1,5e3", want: 1500},
		{name: "garbage", raw: "abc", want: 0},
		{name: "nan string", raw: "NaN", want: 0},
		{name: "inf string", raw: "Inf", want: 0},
		{name: "float64 passthrough", raw: 2.5, want: 2.5},
		{name: "int passthrough", raw: 7, want: 7},
		{name: "json number", raw: json.Number("3.25"), want: 3.25},
		{name: "bool is not a quantity", raw: true, want: 0},
		{name: "float NaN", raw: math.NaN(), want: 0},
		{name: "float Inf", raw: math.Inf(1), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.raw)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestParse_US(t *testing.T) {
	p := NewParser(US)

	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "thousands comma decimal dot", raw: "1,234.5", want: 1234.5},
		{name: "decimal comma only", raw: "12,5", want: 12.5},
		{name: "repeated commas are grouping", raw: "1,234,567", want: 1234567},
		{name: "repeated commas with decimal dot", raw: "1,234,567.89", want: 1234567.89},
		{name: "plain", raw: "83.8", want: 83.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, p.Parse(tt.raw), 1e-12)
		})
	}
}

func TestParse_ConventionsDisagreeOnMixedSeparators(t *testing.T) {
	eu := NewParser(European).Parse("1.234,5")
	us := NewParser(US).Parse("1.234,5")

	assert.InDelta(t, 1234.5, eu, 1e-12)
	// US reads the comma as grouping, leaving 1.2345.
	assert.InDelta(t, 1.2345, us, 1e-12)
}

func TestParse_NeverRounds(t *testing.T) {
	p := NewParser(US)
	assert.Equal(t, 0.123456789012345, p.Parse("0.123456789012345"))
}

func TestParseOK(t *testing.T) {
	p := NewParser(European)

	v, ok := p.ParseOK("0")
	assert.True(t, ok)
	assert.Zero(t, v)

	v, ok = p.ParseOK("")
	assert.False(t, ok)
	assert.Zero(t, v)

	var nilStr *string
	_, ok = p.ParseOK(nilStr)
	assert.False(t, ok)

	s := "5,5"
	v, ok = p.ParseOK(&s)
	assert.True(t, ok)
	assert.InDelta(t, 5.5, v, 1e-12)
}

func TestConvention_String(t *testing.T) {
	assert.Equal(t, "european", European.String())
	assert.Equal(t, "us", US.String())
	assert.Equal(t, "Convention(9)", Convention(9).String())
	assert.Equal(t, European, Parser{}.Convention())
}
