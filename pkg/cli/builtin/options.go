// Package builtin implements the presto commands: provider, app and token
// management, signed requests with url, plus settings, version and
// completion.
package builtin

import (
	"io"
	"net/http"
	"os"

	"github.com/prestocli/presto/pkg/auth"
	"github.com/prestocli/presto/pkg/config"
	"github.com/prestocli/presto/pkg/forms"
	"github.com/prestocli/presto/pkg/output"
	"github.com/prestocli/presto/pkg/progress"
	"go.uber.org/zap"
)

// Options carries the dependencies shared by the commands.
type Options struct {
	Store      *config.Store
	Prompter   forms.Prompter
	Output     io.Writer
	ErrOutput  io.Writer
	Logger     *zap.Logger
	HTTPClient *http.Client
	Browser    auth.BrowserOpener
	Formatter  *output.Manager
	Progress   *progress.Config
	// DefaultFormat is the list output format when -o is not given.
	DefaultFormat string
	Colors        bool
	NoInput       bool
}

func (o *Options) out() io.Writer {
	if o.Output == nil {
		return os.Stdout
	}
	return o.Output
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *Options) client() *http.Client {
	if o.HTTPClient == nil {
		return http.DefaultClient
	}
	return o.HTTPClient
}

func (o *Options) formatter() *output.Manager {
	if o.Formatter == nil {
		o.Formatter = output.NewManager()
	}
	return o.Formatter
}

func (o *Options) progress() progress.Progress {
	cfg := o.Progress
	if cfg == nil {
		cfg = &progress.Config{Enabled: false}
	}
	return progress.New(cfg)
}

// formOptions decides whether a form may prompt: never with --no-input or
// without a prompter, and only when one of the required values is missing.
func (o *Options) formOptions(values map[string]string, required ...string) forms.Options {
	if o.NoInput || o.Prompter == nil {
		return forms.Options{}
	}
	for _, name := range required {
		if values[name] == "" {
			return forms.Options{Interactive: true, Prompter: o.Prompter}
		}
	}
	return forms.Options{}
}

// loadProviders reads the configuration, failing with the guidance error when no
// provider exists yet.
func (o *Options) loadProviders() (*config.Configuration, error) {
	cfg, err := o.Store.Load()
	if err != nil {
		return nil, err
	}
	if len(cfg.Providers) == 0 {
		return nil, config.ErrNoProviders
	}
	return cfg, nil
}
