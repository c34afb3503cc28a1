package builtin

import (
	"fmt"
	"io"
	"strings"

	"github.com/prestocli/presto/pkg/config"
	"github.com/spf13/cobra"
)

// Shells lists the shells completion scripts can be generated for.
var Shells = []string{"bash", "zsh", "fish", "powershell"}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand(out io.Writer, rootCmd *cobra.Command) *cobra.Command {
	name := rootCmd.Name()
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: fmt.Sprintf(`Generate shell completion scripts for %s.

Bash:
  $ %s completion bash > ~/.local/share/bash-completion/completions/%s

Zsh:
  $ %s completion zsh > ~/.zsh/completion/_%s

Fish:
  $ %s completion fish > ~/.config/fish/completions/%s.fish`,
			name, name, name, name, name, name, name),
		ValidArgs:             append([]string(nil), Shells...),
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompletion(rootCmd, args[0], out)
		},
	}
}

func runCompletion(rootCmd *cobra.Command, shell string, out io.Writer) error {
	switch shell {
	case "bash":
		return rootCmd.GenBashCompletion(out)
	case "zsh":
		return rootCmd.GenZshCompletion(out)
	case "fish":
		return rootCmd.GenFishCompletion(out, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(out)
	default:
		return fmt.Errorf("unsupported shell: %s (choose from %s)", shell, strings.Join(Shells, ", "))
	}
}

// CompletionFunc is a cobra dynamic completion function.
type CompletionFunc func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective)

// FixedCompletion returns a completion function with fixed values.
func FixedCompletion(values ...string) CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// ProviderCompletion completes provider names from the configuration.
func ProviderCompletion(opts *Options) CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := opts.Store.Load()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return providerNames(cfg, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

func providerNames(cfg *config.Configuration, prefix string) []string {
	var names []string
	for _, p := range cfg.Providers {
		if strings.HasPrefix(p.Name, prefix) {
			names = append(names, p.Name)
		}
	}
	return names
}
