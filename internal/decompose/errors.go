// Package decompose sends extracted circular text to a language model and
// validates the structured regulation it returns.
package decompose

import (
	"fmt"
	"strings"
)

// DecompositionError represents a model call failure or a response that does
// not conform to the regulation schema.
type DecompositionError struct {
	Reference string
	Message   string
	Cause     error
}

func (e *DecompositionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decomposition error for %s: %s: %v", e.Reference, e.Message, e.Cause)
	}
	return fmt.Sprintf("decomposition error for %s: %s", e.Reference, e.Message)
}

func (e *DecompositionError) Unwrap() error {
	return e.Cause
}

// FieldViolation is a single schema violation at a specific field.
type FieldViolation struct {
	Field   string
	Message string
}

// SchemaViolationError aggregates the schema violations found in one model
// response.
type SchemaViolationError struct {
	Violations []FieldViolation
}

func (e *SchemaViolationError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:\n")
	for i, v := range e.Violations {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, v.Field, v.Message))
	}
	return sb.String()
}
