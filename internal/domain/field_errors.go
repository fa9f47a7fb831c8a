package domain

import (
	"sort"
	"strings"
)

// NonFieldKey collects errors that do not belong to a single form field.
const NonFieldKey = "__all__"

// FieldErrors maps a form field name to its validation messages.
type FieldErrors map[string][]string

// Add appends a message for the given field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Has reports whether the field has at least one message.
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// First returns the first message for the field, or "".
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// NonField returns the errors not tied to a field.
func (fe FieldErrors) NonField() []string {
	return fe[NonFieldKey]
}

// Any reports whether any error was recorded.
func (fe FieldErrors) Any() bool {
	for _, msgs := range fe {
		if len(msgs) > 0 {
			return true
		}
	}
	return false
}

// Error implements error so a FieldErrors value can travel through error returns.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(fe[field], " "))
	}
	return strings.Join(parts, "; ")
}
