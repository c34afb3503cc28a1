// Package interactive provides line-based terminal prompts.
//
// A Prompter reads answers one line at a time from its input, which keeps it
// usable with pipes and scripted input as well as terminals. Questions are
// printed as plain lines, validation messages are styled with pterm.
//
//	prompter := interactive.NewPrompter(nil)
//	prompter.Say("Enter the public key:")
//	key, err := prompter.ReadLine()
//
//	ok, err := prompter.Confirm("Rewrite 'default'?")
//
// Secret answers are read without echo when the input is a terminal.
package interactive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// ErrNonInteractive is returned when a prompt is needed but prompts are
// disabled.
var ErrNonInteractive = errors.New("interactive prompts disabled")

// Prompter handles interactive user prompts.
type Prompter struct {
	input  io.Reader
	reader *bufio.Reader
	output io.Writer
	// DisableColor disables colored output
	DisableColor bool
	// DisableInteractive makes every read fail with ErrNonInteractive
	DisableInteractive bool
}

// PrompterConfig configures the Prompter.
type PrompterConfig struct {
	Input              io.Reader
	Output             io.Writer
	DisableColor       bool
	DisableInteractive bool
}

// NewPrompter creates a new Prompter with the given configuration.
// If config is nil, uses default configuration (stdin/stdout).
func NewPrompter(config *PrompterConfig) *Prompter {
	if config == nil {
		config = &PrompterConfig{}
	}
	input, output := config.Input, config.Output
	if input == nil {
		input = os.Stdin
	}
	if output == nil {
		output = os.Stdout
	}

	return &Prompter{
		input:              input,
		reader:             bufio.NewReader(input),
		output:             output,
		DisableColor:       config.DisableColor,
		DisableInteractive: config.DisableInteractive,
	}
}

// Writer returns the output stream.
func (p *Prompter) Writer() io.Writer {
	return p.output
}

// Say prints a line.
func (p *Prompter) Say(msg string) {
	_, _ = fmt.Fprintln(p.output, msg)
}

// Warn prints a validation message.
func (p *Prompter) Warn(msg string) {
	if p.DisableColor {
		_, _ = fmt.Fprintln(p.output, msg)
		return
	}
	pterm.Error.WithWriter(p.output).Println(msg)
}

// ReadLine reads one line of input. The final line may lack a newline.
func (p *Prompter) ReadLine() (string, error) {
	if p.DisableInteractive {
		return "", ErrNonInteractive
	}

	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadSecret reads one line without echo when the input is a terminal.
func (p *Prompter) ReadSecret() (string, error) {
	if p.DisableInteractive {
		return "", ErrNonInteractive
	}

	if f, ok := p.input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		data, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(p.output)
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return string(data), nil
	}
	return p.ReadLine()
}

// Confirm asks a yes/no question until it gets an answer. An empty answer
// means yes.
func (p *Prompter) Confirm(question string) (bool, error) {
	for {
		p.Say(question + " (y/n)")
		answer, err := p.ReadLine()
		if err != nil {
			return false, err
		}

		switch strings.TrimSpace(answer) {
		case "Y", "y", "yes", "":
			return true, nil
		case "N", "n", "no":
			return false, nil
		}
	}
}
