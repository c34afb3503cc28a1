package forms

import (
	"fmt"
	"strings"
)

// ValidationError reports a value rejected by a field. Interactive forms
// recover from it by asking again.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid returns a ValidationError with a formatted message.
func Invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AlreadyExistError reports a name that collides with an existing sibling.
// Interactive forms offer to overwrite the existing entry.
type AlreadyExistError struct {
	Message string
	Value   string
}

// Error implements the error interface.
func (e *AlreadyExistError) Error() string {
	return e.Message
}

// Unwrap lets errors.As match an AlreadyExistError as a ValidationError.
func (e *AlreadyExistError) Unwrap() error {
	return &ValidationError{Message: e.Message}
}

// AlreadyExist returns an AlreadyExistError for value.
func AlreadyExist(value, format string, args ...interface{}) error {
	return &AlreadyExistError{Message: fmt.Sprintf(format, args...), Value: value}
}

// FieldError is a validation failure bound to a field name.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors collects field errors in field declaration order.
type Errors []FieldError

// Error implements the error interface.
func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return "validation failed:\n  - " + strings.Join(msgs, "\n  - ")
}

// Get returns the message recorded for field.
func (e Errors) Get(field string) (string, bool) {
	for _, err := range e {
		if err.Field == field {
			return err.Message, true
		}
	}
	return "", false
}

// Has reports whether field failed.
func (e Errors) Has(field string) bool {
	_, ok := e.Get(field)
	return ok
}
