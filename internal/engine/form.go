package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Form parses a raw FieldValues map into typed values, collecting every
// violation instead of failing fast. A calculator builds one Form per
// validation pass, pulls each of its fields through the typed accessors, and
// reads the accumulated errors at the end, so the caller always sees the full
// error list.
//
// Conditionally required fields are handled by the calculator itself: it
// checks the gating condition first and only then asks the Form for the field.
type Form struct {
	in   FieldValues
	errs []string
}

// NewForm wraps an input map for typed parsing.
func NewForm(in FieldValues) *Form {
	return &Form{in: in}
}

func (f *Form) addError(format string, args ...interface{}) {
	f.errs = append(f.errs, fmt.Sprintf(format, args...))
}

// Errors returns the violations collected so far, in field order.
func (f *Form) Errors() []string {
	return f.errs
}

// Result folds the collected errors into a ValidationResult.
func (f *Form) Result() ValidationResult {
	return NewValidationResult(f.errs)
}

func parseNumber(raw string) (float64, error) {
	// Forms occasionally submit a comma decimal separator.
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
}

// Float parses a required numeric field and checks its domain range.
// On any violation it records the error and returns 0.
func (f *Form) Float(id, label string, min, max float64) float64 {
	raw, ok := f.in.Get(id)
	if !ok {
		f.addError("El campo %q es obligatorio", label)
		return 0
	}
	v, err := parseNumber(raw)
	if err != nil {
		f.addError("El campo %q debe ser un número válido", label)
		return 0
	}
	if v < min || v > max {
		f.addError("El campo %q debe estar entre %s y %s", label,
			strconv.FormatFloat(min, 'f', -1, 64), strconv.FormatFloat(max, 'f', -1, 64))
		return 0
	}
	return v
}

// FloatOpt parses an optional numeric field, returning def when not provided.
// A provided value is still range-checked.
func (f *Form) FloatOpt(id, label string, min, max, def float64) float64 {
	if _, ok := f.in.Get(id); !ok {
		return def
	}
	return f.Float(id, label, min, max)
}

// Int parses a required integer field and checks its domain range.
func (f *Form) Int(id, label string, min, max int) int {
	raw, ok := f.in.Get(id)
	if !ok {
		f.addError("El campo %q es obligatorio", label)
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		f.addError("El campo %q debe ser un número entero válido", label)
		return 0
	}
	if v < min || v > max {
		f.addError("El campo %q debe estar entre %d y %d", label, min, max)
		return 0
	}
	return v
}

// Bool parses an optional boolean field encoded as the literals "true" and
// "false". A missing field is false; anything else is a violation.
func (f *Form) Bool(id, label string) bool {
	raw, ok := f.in.Get(id)
	if !ok {
		return false
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	f.addError("El campo %q debe ser \"true\" o \"false\"", label)
	return false
}

// Enum parses a required categorical field. Matching is exact, including
// case and accents. On violation it records the error and returns "".
func (f *Form) Enum(id, label string, options ...string) string {
	raw, ok := f.in.Get(id)
	if !ok {
		f.addError("El campo %q es obligatorio", label)
		return ""
	}
	for _, opt := range options {
		if raw == opt {
			return raw
		}
	}
	f.addError("El campo %q debe ser una de las opciones: %s", label, strings.Join(options, ", "))
	return ""
}

// EnumOpt parses an optional categorical field, returning def when not
// provided.
func (f *Form) EnumOpt(id, label, def string, options ...string) string {
	if _, ok := f.in.Get(id); !ok {
		return def
	}
	return f.Enum(id, label, options...)
}
