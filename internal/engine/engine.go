// Package engine defines the uniform contract every clinical calculator
// implements, plus the registry that dispatches a computation request to the
// correct calculator by identifier.
//
// Input crosses the boundary as a string-keyed field map supplied by the
// surrounding form layer; each calculator owns the authoritative parsing and
// typing for its own field set. All operations are pure and synchronous:
// a calculator is a function of its input map plus fixed internal lookup
// tables, so concurrent invocations are safe without locking.
package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldValues maps a field identifier to its raw textual value. A field that
// is absent or blank is treated as "not provided", which is distinct from an
// invalid value.
type FieldValues map[string]string

// Get returns the trimmed value for a field and whether it was provided.
func (f FieldValues) Get(id string) (string, bool) {
	v, ok := f[id]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}

// Clone returns an independent copy so results never alias caller maps.
func (f FieldValues) Clone() FieldValues {
	out := make(FieldValues, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// ValidationResult is the outcome of the pre-computation checks. Valid is
// true exactly when Errors is empty. It is produced fresh on every call and
// never mutated afterward.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// NewValidationResult builds a result from an ordered error list.
func NewValidationResult(errs []string) ValidationResult {
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Err collapses an invalid result into the single aggregated error that
// Calculate reports. It returns nil when the result is valid.
func (v ValidationResult) Err() error {
	if v.Valid {
		return nil
	}
	return fmt.Errorf("entrada inválida: %s", strings.Join(v.Errors, "; "))
}

// CalculationResult is the outcome of a successful computation. Inputs echo
// the field map as received; Results holds exactly the calculator's declared
// output fields, each pre-formatted to its fixed decimal precision.
type CalculationResult struct {
	CalculatorID string      `json:"calculator_id"`
	Inputs       FieldValues `json:"inputs"`
	Results      FieldValues `json:"results"`
}

// Reference is static citation metadata for a calculator.
type Reference struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Year   int    `json:"year,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Calculator is the polymorphic contract shared by every clinical tool.
//
// Calculate must internally re-run Validate and fail with the aggregated
// error when the input is invalid; computation is never attempted on invalid
// input and there is no partial result. Interpret renders a clinician-facing
// narrative from an existing result without recomputing any value.
type Calculator interface {
	ID() string
	Validate(in FieldValues) ValidationResult
	Calculate(in FieldValues) (*CalculationResult, error)
	Interpret(res *CalculationResult) string
	References() []Reference
}

// FormatFloat renders a value with a fixed number of decimals. All result
// fields go through this so repeated calculations are bit-identical.
func FormatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FormatInt renders an integer result field.
func FormatInt(v int) string {
	return strconv.Itoa(v)
}
