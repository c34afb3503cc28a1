package config

import "fmt"

// ConfigurationError reports a missing or malformed configuration, or a
// lookup that found nothing.
type ConfigurationError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Errors returned when a list a lookup needs is empty.
var (
	ErrNoProviders = &ConfigurationError{Message: "Please add provider."}
	ErrNoApps      = &ConfigurationError{Message: "Please add app."}
)

func notFound(format string, args ...interface{}) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}
