package handler

import (
	"net/url"
	"sort"
	"strings"
)

// ValidationError represents field validation errors.
// It's based on url.Values to leverage built-in string slice handling.
type ValidationError url.Values

// Error returns the messages of all fields in a stable order.
func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "Validation failed"
	}
	return "Invalid input data. " + e.Messages()
}

// Messages joins all messages, ordered by field name.
// Messages are full sentences, for example "A tour must have a name".
func (e ValidationError) Messages() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		for _, msg := range e[field] {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, ". ")
}

// NewValidationError creates a new validation error.
func NewValidationError() ValidationError {
	return make(ValidationError)
}

// Add adds an error message for a field.
func (e ValidationError) Add(field, message string) {
	url.Values(e).Add(field, message)
}

// Get returns the first error message for a field.
func (e ValidationError) Get(field string) string {
	return url.Values(e).Get(field)
}

// Has checks if a field has any errors.
func (e ValidationError) Has(field string) bool {
	return len(e[field]) > 0
}

// IsEmpty returns true if there are no validation errors.
func (e ValidationError) IsEmpty() bool {
	return len(e) == 0
}
