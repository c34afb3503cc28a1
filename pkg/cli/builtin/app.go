package builtin

import (
	"fmt"

	"github.com/prestocli/presto/pkg/config"
	"github.com/prestocli/presto/pkg/secrets"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewAppCommand creates the app command group.
func NewAppCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "app",
		Short: "Manage applications",
		Long: `Manage applications. An application is a consumer key pair registered
with a provider; a provider may have several. The app named 'default' is
used by 'presto url -a' unless --auth-app is given.`,
	}

	cmd.AddCommand(newAppListCommand(opts))
	cmd.AddCommand(newAppAddCommand(opts))

	return cmd
}

func newAppListCommand(opts *Options) *cobra.Command {
	lo := &listOptions{}
	var showKeys bool

	cmd := &cobra.Command{
		Use:   "list [provider]",
		Short: "List applications",
		Long: `List the applications of every provider, or of one provider given by
name or number. Keys are masked unless --show-keys is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadProviders()
			if err != nil {
				return err
			}

			providers := cfg.Providers
			if len(args) > 0 {
				p, err := cfg.ProviderByRef(args[0])
				if err != nil {
					return err
				}
				providers = []*config.Provider{p}
			}

			return opts.writeRecords(lo, appRecords(providers, showKeys), func(r map[string]interface{}) string {
				return fmt.Sprintf("%v (%v)", r["name"], r["provider"])
			})
		},
		ValidArgsFunction: ProviderCompletion(opts),
	}
	addListFlags(cmd, lo)
	cmd.Flags().BoolVar(&showKeys, "show-keys", false, "Print keys unmasked")
	return cmd
}

// appRecords numbers apps across all given providers.
func appRecords(providers []*config.Provider, showKeys bool) []map[string]interface{} {
	var records []map[string]interface{}
	for _, p := range providers {
		for _, a := range p.Apps {
			tokens := make([]interface{}, 0, len(a.Tokens))
			for _, t := range a.Tokens {
				tokens = append(tokens, t.Name)
			}
			records = append(records, map[string]interface{}{
				"index":      len(records) + 1,
				"name":       a.Name,
				"provider":   p.Name,
				"public_key": maskKey(a.PublicKey, showKeys),
				"secret_key": maskKey(a.SecretKey, showKeys),
				"tokens":     tokens,
			})
		}
	}
	return records
}

func maskKey(value string, show bool) string {
	if show || value == "" {
		return value
	}
	return secrets.MaskValue(value, secrets.DefaultMasking)
}

func newAppAddCommand(opts *Options) *cobra.Command {
	var provider, publicKey, secretKey string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add an application",
		Long: `Add an application (a consumer key pair) to a provider. The name
defaults to 'default'. Values missing from the arguments are asked for
interactively unless --no-input is set.`,
		Example: `  presto app add
  presto app add default --provider=twitter --public_key=KEY --secret_key=SECRET`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := map[string]string{
				"provider":   provider,
				"public_key": publicKey,
				"secret_key": secretKey,
			}
			if len(args) > 0 {
				values["name"] = args[0]
			}
			return runAppAdd(opts, values)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider name or number")
	cmd.Flags().StringVar(&publicKey, "public_key", "", "Consumer public key")
	cmd.Flags().StringVar(&secretKey, "secret_key", "", "Consumer secret key")
	_ = cmd.RegisterFlagCompletionFunc("provider", ProviderCompletion(opts))

	return cmd
}

func runAppAdd(opts *Options, values map[string]string) error {
	cfg, err := opts.loadProviders()
	if err != nil {
		return err
	}

	form := config.NewApplicationForm(cfg, values,
		opts.formOptions(values, "provider", "public_key", "secret_key"))
	if err := form.Clean(); err != nil {
		return err
	}

	p := form.ProviderValue()
	app := form.Application()
	if err := p.AddApp(app); err != nil {
		return err
	}
	if err := opts.Store.Save(); err != nil {
		return err
	}

	opts.logger().Debug("app added",
		zap.String("provider", p.Name),
		zap.String("app", app.Name),
		zap.String("public_key", secrets.MaskValue(app.PublicKey, nil)))
	_, _ = fmt.Fprintf(opts.out(), "Added new app '%s'\n", app.Name)
	return nil
}
