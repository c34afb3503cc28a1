package builtin

import (
	"fmt"
	"os"
	"time"

	"github.com/prestocli/presto/internal/settings"
	"github.com/spf13/pflag"
)

// GlobalFlags are the persistent flags shared by every command.
type GlobalFlags struct {
	Config  string
	Debug   bool
	NoColor bool
	NoInput bool
	Timeout time.Duration
}

// AddGlobalFlags registers the global flags on pf.
func AddGlobalFlags(pf *pflag.FlagSet) *GlobalFlags {
	flags := &GlobalFlags{}

	pf.StringVar(&flags.Config, "config", "", "Path to the providers file (default ~/.presto)")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&flags.NoInput, "no-input", false, "Never prompt; fail on missing values")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "HTTP timeout (e.g. 30s); 0 waits forever")

	return flags
}

// Validate checks flag values.
func (f *GlobalFlags) Validate() error {
	if f.Timeout < 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// Apply overrides s with the flags that were set on the command line. The
// NO_COLOR convention disables color as well.
func (f *GlobalFlags) Apply(pf *pflag.FlagSet, s *settings.Settings) {
	if pf.Changed("config") {
		s.ConfigPath = f.Config
	}
	if pf.Changed("debug") {
		s.Debug = f.Debug
	}
	if pf.Changed("timeout") {
		s.Timeout = f.Timeout.String()
	}
	if f.NoColor || os.Getenv("NO_COLOR") != "" {
		s.Color = false
	}
}
