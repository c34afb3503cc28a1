package builtin

import (
	"fmt"
	"io"

	"github.com/prestocli/presto/internal/settings"
	"github.com/prestocli/presto/pkg/output"
	"github.com/spf13/cobra"
)

// SettingsOptions configures the settings command.
type SettingsOptions struct {
	// Settings are the effective settings, flags included.
	Settings *settings.Settings
	// Loader reads and writes the settings file.
	Loader *settings.Loader
	Output io.Writer
}

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand(opts *SettingsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change presto settings",
		Long: `Show and change presto settings.

Settings are stored in:
  ` + opts.Loader.Path() + `

Every key can be overridden with a PRESTO_<KEY> environment variable.

Keys:
  config_path  providers file (default ~/.presto)
  timeout      HTTP timeout such as 30s
  color        colored output
  debug        debug logging to stderr
  output       default list format (text|json|yaml|table)`,
	}

	cmd.AddCommand(newSettingsShowCommand(opts))
	cmd.AddCommand(newSettingsGetCommand(opts))
	cmd.AddCommand(newSettingsSetCommand(opts))
	cmd.AddCommand(newSettingsPathCommand(opts))

	return cmd
}

func newSettingsShowCommand(opts *SettingsOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return output.NewManager().Format(opts.Output, opts.Settings.Map(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "yaml", "Output format (json|yaml|table)")
	return cmd
}

func newSettingsGetCommand(opts *SettingsOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one setting",
		Args:      cobra.ExactArgs(1),
		ValidArgs: settings.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := opts.Settings.Get(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(opts.Output, value)
			return nil
		},
	}
}

func newSettingsSetCommand(opts *SettingsOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change a setting in the settings file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: settings.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Start from the file so flag overrides are not persisted.
			stored, err := opts.Loader.Load()
			if err != nil {
				return err
			}
			if err := stored.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := opts.Loader.Save(stored); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(opts.Output, "Set %s to %q\n", args[0], args[1])
			return nil
		},
	}
}

func newSettingsPathCommand(opts *SettingsOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintln(opts.Output, opts.Loader.Path())
			return nil
		},
	}
}
