package validator

import (
	"errors"
	"strings"
)

// ErrValidation is matched by every ValidationErrors value.
var ErrValidation = errors.New("validation failed")

// ValidationError describes a single failed rule for a field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every failed rule of a validation pass, in field order.
type ValidationErrors []ValidationError

// Add appends a validation error.
func (v *ValidationErrors) Add(err ValidationError) {
	*v = append(*v, err)
}

// IsEmpty reports whether no rule failed.
func (v ValidationErrors) IsEmpty() bool {
	return len(v) == 0
}

// Fields returns the distinct field names that failed, preserving first-seen order.
func (v ValidationErrors) Fields() []string {
	seen := make(map[string]struct{}, len(v))
	fields := make([]string, 0, len(v))
	for _, e := range v {
		if _, ok := seen[e.Field]; ok {
			continue
		}
		seen[e.Field] = struct{}{}
		fields = append(fields, e.Field)
	}
	return fields
}

// Has reports whether the given field failed at least one rule.
func (v ValidationErrors) Has(field string) bool {
	for _, e := range v {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Is makes ValidationErrors match ErrValidation.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}
