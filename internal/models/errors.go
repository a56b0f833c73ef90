package models

import (
	"errors"
	"sort"
	"strings"
)

// ErrValidation matches every FieldErrors value via errors.Is.
var ErrValidation = errors.New("validation failed")

// FieldErrors collects per-field validation messages, keyed by field name.
type FieldErrors map[string]string

// Add records msg for field, keeping the first message reported.
func (e FieldErrors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// Err returns nil when no field failed.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e FieldErrors) Is(target error) bool {
	return target == ErrValidation
}
