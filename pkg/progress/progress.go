// Package progress shows spinners around slow operations such as the
// token handshake.
package progress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pterm/pterm"
)

// ErrSpinning is returned when Start is called on a running spinner.
var ErrSpinning = errors.New("spinner already running")

// Spinner draws a pterm spinner for one step at a time.
type Spinner struct {
	mu      sync.Mutex
	config  *Config
	printer *pterm.SpinnerPrinter
}

// NewSpinner creates a spinner writing to config.Writer.
func NewSpinner(config *Config) *Spinner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Spinner{config: config}
}

// Start begins spinning with message. It is a no-op when disabled.
func (s *Spinner) Start(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.config.Enabled {
		return nil
	}
	if s.printer != nil {
		return ErrSpinning
	}

	printer := pterm.DefaultSpinner.WithRemoveWhenDone(false)
	if s.config.Writer != nil {
		printer = printer.WithWriter(s.config.Writer)
	}
	started, err := printer.Start(message)
	if err != nil {
		return fmt.Errorf("start spinner: %w", err)
	}
	s.printer = started
	return nil
}

// Success stops the spinner with a success mark.
func (s *Spinner) Success(message string) error {
	return s.finish(func(p *pterm.SpinnerPrinter) { p.Success(message) })
}

// Failure stops the spinner with a failure mark.
func (s *Spinner) Failure(message string) error {
	return s.finish(func(p *pterm.SpinnerPrinter) { p.Fail(message) })
}

func (s *Spinner) finish(mark func(*pterm.SpinnerPrinter)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.printer == nil {
		return nil
	}
	mark(s.printer)
	s.printer = nil
	return nil
}

// NoopProgress discards everything.
type NoopProgress struct{}

func (NoopProgress) Start(string) error   { return nil }
func (NoopProgress) Success(string) error { return nil }
func (NoopProgress) Failure(string) error { return nil }

// New returns a Spinner, or a NoopProgress when config disables output.
func New(config *Config) Progress {
	if config == nil {
		config = DefaultConfig()
	}
	if !config.Enabled {
		return NoopProgress{}
	}
	return NewSpinner(config)
}

// Run shows p while fn executes and reports its outcome.
func Run(p Progress, message string, fn func() error) error {
	if p == nil {
		p = NoopProgress{}
	}
	if err := p.Start(message); err != nil {
		return err
	}

	if err := fn(); err != nil {
		_ = p.Failure(message)
		return err
	}
	return p.Success(message)
}
