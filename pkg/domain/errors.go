package domain

import (
	"fmt"
	"sort"
	"strings"
)

// FieldErrors maps a field name to its human-readable messages.
type FieldErrors map[string][]string

// Add appends a message for a field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) String() string {
	if len(f) == 0 {
		return ""
	}
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(f[field], "; "))
	}
	return strings.Join(parts, ", ")
}

// ValidationError reports one or more field-level invariant failures.
// It is surfaced directly to the caller and never retried.
type ValidationError struct {
	Fields FieldErrors
}

func (e ValidationError) Error() string {
	return "validation failed: " + e.Fields.String()
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) ValidationError {
	fields := FieldErrors{}
	fields.Add(field, message)
	return ValidationError{Fields: fields}
}

// ComponentErrors maps a zero-based component index to that
// component's field errors.
type ComponentErrors map[int]FieldErrors

// ComponentValidationError aggregates per-index component failures
// collected while processing a product's component list. Raising it
// rolls back the surrounding transaction entirely.
type ComponentValidationError struct {
	Components ComponentErrors
}

func (e ComponentValidationError) Error() string {
	indexes := make([]int, 0, len(e.Components))
	for i := range e.Components {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	parts := make([]string, 0, len(indexes))
	for _, i := range indexes {
		parts = append(parts, fmt.Sprintf("%d: %s", i, e.Components[i].String()))
	}
	return "components validation failed: " + strings.Join(parts, ", ")
}

// NotFoundError is returned when a referenced entity does not resolve
// within the caller's scope.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ForbiddenError is returned when an entity resolves but the acting
// user does not own it. It is distinct from NotFoundError: the row
// exists and access is denied.
type ForbiddenError struct {
	Entity EntityType
	ID     string
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("%s %s forbidden", e.Entity, e.ID)
}
