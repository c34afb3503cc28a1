// Package runtime assembles the presto command line: it loads settings,
// applies the global flags, wires the shared dependencies of the commands
// and builds the cobra command tree.
//
// # Initialization Flow
//
//	1. Build the command tree with the global flags
//	2. Before any command runs:
//	   - Load settings (settings file, then PRESTO_* variables)
//	   - Apply the flags that were set on the command line
//	   - Create the logger, configuration store, prompter and HTTP client
//	3. Execute the command
//
// # Example Usage
//
//	rt := runtime.NewRuntime(runtime.BuildInfo{Version: version})
//	if err := rt.Execute(); err != nil {
//	    fmt.Fprintf(os.Stderr, "Error: %v\n", err)
//	    os.Exit(1)
//	}
//
// # Global Flags
//
//	--config       Path to the providers file
//	--debug        Debug logging to stderr
//	--no-color     Disable colored output
//	--no-input     Never prompt
//	--timeout      HTTP timeout
package runtime

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prestocli/presto/internal/settings"
	"github.com/prestocli/presto/pkg/cli/builtin"
	"github.com/prestocli/presto/pkg/cli/interactive"
	"github.com/prestocli/presto/pkg/config"
	"github.com/prestocli/presto/pkg/output"
	"github.com/prestocli/presto/pkg/progress"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Name is the program name. It also prefixes environment variables.
const Name = "presto"

// BuildInfo describes the binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime time.Time
}

// Runtime represents the runtime environment of the CLI.
type Runtime struct {
	info     BuildInfo
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	loader   *settings.Loader
	settings *settings.Settings
	flags    *builtin.GlobalFlags
	logger   *zap.Logger
	opts     *builtin.Options
	rootCmd  *cobra.Command
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithIO replaces the standard streams.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(rt *Runtime) {
		rt.in = in
		rt.out = out
		rt.errOut = errOut
	}
}

// WithSettingsLoader replaces the settings loader.
func WithSettingsLoader(loader *settings.Loader) Option {
	return func(rt *Runtime) {
		rt.loader = loader
	}
}

// NewRuntime creates the runtime and its command tree.
func NewRuntime(info BuildInfo, options ...Option) *Runtime {
	if info.Version == "" {
		info.Version = "dev"
	}

	rt := &Runtime{
		info:     info,
		in:       os.Stdin,
		out:      os.Stdout,
		errOut:   os.Stderr,
		loader:   settings.NewLoader(Name),
		settings: settings.Defaults(),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		opt(rt)
	}

	// Completion runs without the pre-run hook, so the store needs a
	// usable default.
	rt.opts = &builtin.Options{
		Store:     config.NewStore(config.DefaultPath()),
		Output:    rt.out,
		ErrOutput: rt.errOut,
		Formatter: output.NewManager(),
	}

	rt.buildCommandTree()
	return rt
}

// buildCommandTree builds the cobra command tree.
func (rt *Runtime) buildCommandTree() {
	rt.rootCmd = &cobra.Command{
		Use:   Name,
		Short: "Command line HTTP client with OAuth1.0 signing",
		Long: `presto sends HTTP requests signed with OAuth1.0 credentials.

Credentials are kept in a JSON file (default ~/.presto) as a tree of
providers, their applications (consumer key pairs) and the access tokens
obtained for each application.

  presto provider add            register a provider
  presto app add                 add a consumer key pair
  presto token add               run the OAuth handshake
  presto url -a <url>            send a signed request`,
		Version:           builtin.VersionShort(rt.info.Version, rt.info.Commit),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: rt.preRunHook,
	}
	rt.rootCmd.SetIn(rt.in)
	rt.rootCmd.SetOut(rt.out)
	rt.rootCmd.SetErr(rt.errOut)

	rt.flags = builtin.AddGlobalFlags(rt.rootCmd.PersistentFlags())

	rt.rootCmd.AddCommand(builtin.NewProviderCommand(rt.opts))
	rt.rootCmd.AddCommand(builtin.NewAppCommand(rt.opts))
	rt.rootCmd.AddCommand(builtin.NewTokenCommand(rt.opts))
	rt.rootCmd.AddCommand(builtin.NewURLCommand(rt.opts))
	rt.rootCmd.AddCommand(builtin.NewSettingsCommand(&builtin.SettingsOptions{
		Settings: rt.settings,
		Loader:   rt.loader,
		Output:   rt.out,
	}))
	rt.rootCmd.AddCommand(builtin.NewVersionCommand(&builtin.VersionOptions{
		Version:   rt.info.Version,
		Commit:    rt.info.Commit,
		BuildTime: rt.info.BuildTime,
		Output:    rt.out,
	}))
	rt.rootCmd.AddCommand(builtin.NewCompletionCommand(rt.out, rt.rootCmd))
}

// preRunHook is executed before every command.
func (rt *Runtime) preRunHook(cmd *cobra.Command, args []string) error {
	if err := rt.flags.Validate(); err != nil {
		return err
	}

	loaded, err := rt.loader.Load()
	if err != nil {
		return err
	}
	*rt.settings = *loaded
	rt.flags.Apply(cmd.Flags(), rt.settings)

	timeout, err := rt.settings.TimeoutDuration()
	if err != nil {
		return err
	}

	// Piped output stays plain so it can be parsed.
	colors := rt.settings.Color && isTerminal(rt.out)
	if !colors {
		pterm.DisableColor()
	}
	rt.logger = newLogger(rt.errOut, rt.settings.Debug)

	path := rt.settings.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	o := rt.opts
	o.Store = config.NewStore(path, config.WithLogger(rt.logger))
	o.Logger = rt.logger
	o.HTTPClient = &http.Client{Timeout: timeout}
	o.Colors = colors
	o.DefaultFormat = rt.settings.Output
	o.NoInput = rt.flags.NoInput
	o.Progress = &progress.Config{Enabled: isTerminal(rt.errOut), Writer: rt.errOut}
	o.Prompter = interactive.NewPrompter(&interactive.PrompterConfig{
		Input:              rt.in,
		Output:             rt.out,
		DisableColor:       !colors,
		DisableInteractive: rt.flags.NoInput,
	})

	rt.logger.Debug("settings loaded",
		zap.String("settings", rt.loader.Path()),
		zap.String("config", path),
		zap.Duration("timeout", timeout),
		zap.String("command", cmd.CommandPath()))
	return nil
}

// newLogger writes development-style logs to w when debug is set.
func newLogger(w io.Writer, debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Root returns the root command.
func (rt *Runtime) Root() *cobra.Command {
	return rt.rootCmd
}

// Execute runs the CLI.
func (rt *Runtime) Execute() error {
	return rt.ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI with ctx passed to the commands.
func (rt *Runtime) ExecuteContext(ctx context.Context) error {
	defer func() { _ = rt.logger.Sync() }()
	return rt.rootCmd.ExecuteContext(ctx)
}
