// Package activity defines the inbound measurement every calculator
// consumes and the validation error raised when it is unusable.
package activity

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrValidation is matched by every *ValidationError.
const ErrValidation = constError("validation error")

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is or wraps a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// Measurement is one activity quantity to be converted to emissions.
type Measurement struct {
	Quantity     float64 `json:"quantity"                yaml:"quantity"                toml:"quantity"`
	Unit         string  `json:"unit"                    yaml:"unit"                    toml:"unit"`
	ActivityName string  `json:"activity_name,omitempty" yaml:"activity_name,omitempty" toml:"activity_name"`
	Category     string  `json:"category,omitempty"      yaml:"category,omitempty"      toml:"category"`
	StandardYear int     `json:"standard_year,omitempty" yaml:"standard_year,omitempty" toml:"standard_year"`
}

// Validate rejects non-finite or non-positive quantities and a missing unit.
func (m Measurement) Validate() error {
	switch {
	case math.IsNaN(m.Quantity) || math.IsInf(m.Quantity, 0):
		return Invalid("quantity", "must be finite")
	case m.Quantity <= 0:
		return Invalid("quantity", fmt.Sprintf("must be positive, got %g", m.Quantity))
	case strings.TrimSpace(m.Unit) == "":
		return Invalid("unit", "is required")
	}
	return nil
}

// Label is the activity name, or the category when no name was given.
func (m Measurement) Label() string {
	if m.ActivityName != "" {
		return m.ActivityName
	}
	return m.Category
}
