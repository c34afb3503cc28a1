package builtin

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/prestocli/presto/pkg/output"
	"github.com/spf13/cobra"
)

// VersionInfo describes the presto binary.
type VersionInfo struct {
	Version   string    `json:"version" yaml:"version"`
	Commit    string    `json:"commit,omitempty" yaml:"commit,omitempty"`
	Built     time.Time `json:"built,omitempty" yaml:"built,omitempty"`
	GoVersion string    `json:"go_version" yaml:"go_version"`
	Platform  string    `json:"platform" yaml:"platform"`
	Compiler  string    `json:"compiler" yaml:"compiler"`
}

// VersionOptions configures the version command.
type VersionOptions struct {
	Version      string
	Commit       string
	BuildTime    time.Time
	OutputFormat string
	Output       io.Writer
}

// NewVersionCommand creates the version command.
func NewVersionCommand(opts *VersionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputFormat, "output", "o", formatText, "Output format (text|json|yaml)")
	_ = cmd.RegisterFlagCompletionFunc("output", FixedCompletion(formatText, "json", "yaml"))

	return cmd
}

// NewVersionInfo collects the build information.
func NewVersionInfo(opts *VersionOptions) *VersionInfo {
	return &VersionInfo{
		Version:   opts.Version,
		Commit:    opts.Commit,
		Built:     opts.BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Compiler:  runtime.Compiler,
	}
}

func runVersion(opts *VersionOptions) error {
	info := NewVersionInfo(opts)

	switch opts.OutputFormat {
	case "json", "yaml":
		return output.NewManager().Format(opts.Output, info, opts.OutputFormat)
	case formatText, "":
		return formatVersionText(info, opts.Output)
	default:
		return fmt.Errorf("unsupported output format: %s", opts.OutputFormat)
	}
}

func formatVersionText(info *VersionInfo, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "Version: %s\n", info.Version)
	if info.Commit != "" {
		_, _ = fmt.Fprintf(w, "Commit: %s\n", info.Commit)
	}
	if !info.Built.IsZero() {
		_, _ = fmt.Fprintf(w, "Built: %s\n", info.Built.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
	_, _ = fmt.Fprintf(w, "Platform: %s\n", info.Platform)
	_, _ = fmt.Fprintf(w, "Compiler: %s\n", info.Compiler)
	return nil
}

// VersionShort returns the string printed by --version.
func VersionShort(version, commit string) string {
	if commit != "" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return version
}
