package progress

import (
	"io"
)

// Progress reports on a single slow step while presto waits on the network.
type Progress interface {
	Start(message string) error
	Success(message string) error
	Failure(message string) error
}

// Config contains configuration for progress indicators.
type Config struct {
	// Enabled determines if progress indicators are shown.
	Enabled bool

	// Writer is where to write progress output.
	Writer io.Writer
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
	}
}
