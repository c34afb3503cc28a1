package builtin

import (
	"fmt"

	"github.com/prestocli/presto/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// providerFields are the provider add flags, named after the stored keys.
var providerFields = []struct {
	name  string
	usage string
}{
	{"domain_name", "Domain name, may be a comma-separated list"},
	{"auth_type", "Auth type (OAuth1.0|OAuth2.0)"},
	{"request_token_url", "Request token URL"},
	{"request_token_method", "Request token method (POST|GET)"},
	{"access_token_url", "Access token URL"},
	{"access_token_method", "Access token method (POST|GET)"},
	{"auth_url", "Auth URL"},
}

// NewProviderCommand creates the provider command group.
func NewProviderCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage service providers",
		Long: `Manage service providers such as twitter or odesk.

A provider holds the OAuth endpoints of a service and the domains its API is
served from. Requests made with 'presto url -a' pick the provider whose
domain matches the URL host.`,
	}

	cmd.AddCommand(newProviderListCommand(opts))
	cmd.AddCommand(newProviderAddCommand(opts))

	return cmd
}

func newProviderListCommand(opts *Options) *cobra.Command {
	lo := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadProviders()
			if err != nil {
				return err
			}
			return opts.writeRecords(lo, providerRecords(cfg), func(r map[string]interface{}) string {
				return fmt.Sprint(r["name"])
			})
		},
	}
	addListFlags(cmd, lo)
	return cmd
}

// providerRecords lists providers with app names only, so key material is
// never printed.
func providerRecords(cfg *config.Configuration) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(cfg.Providers))
	for i, p := range cfg.Providers {
		r := p.ToMap()
		apps := make([]interface{}, 0, len(p.Apps))
		for _, a := range p.Apps {
			apps = append(apps, a.Name)
		}
		r["apps"] = apps
		r["index"] = i + 1
		records = append(records, r)
	}
	return records
}

func newProviderAddCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a provider",
		Long: `Add a provider. Values missing from the arguments are asked for
interactively unless --no-input is set.`,
		Example: `  presto provider add
  presto provider add example --domain_name=api.example.com --auth_type=OAuth1.0 \
    --request_token_url=https://example.com/oauth/request_token \
    --access_token_url=https://example.com/oauth/access_token \
    --auth_url=https://example.com/oauth/authorize`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make(map[string]string)
			if len(args) > 0 {
				values["name"] = args[0]
			}
			for _, f := range providerFields {
				if v, _ := cmd.Flags().GetString(f.name); v != "" {
					values[f.name] = v
				}
			}
			return runProviderAdd(opts, values)
		},
	}

	for _, f := range providerFields {
		cmd.Flags().String(f.name, "", f.usage)
	}
	_ = cmd.RegisterFlagCompletionFunc("auth_type", FixedCompletion(config.AuthTypes...))
	_ = cmd.RegisterFlagCompletionFunc("request_token_method", FixedCompletion(config.Methods...))
	_ = cmd.RegisterFlagCompletionFunc("access_token_method", FixedCompletion(config.Methods...))

	return cmd
}

func runProviderAdd(opts *Options, values map[string]string) error {
	cfg, err := opts.Store.Load()
	if err != nil {
		return err
	}

	form := config.NewProviderForm(cfg, values,
		opts.formOptions(values, "name", "domain_name", "request_token_url", "access_token_url", "auth_url"))
	if err := form.Clean(); err != nil {
		return err
	}

	p := form.Provider()
	if err := cfg.AddProvider(p); err != nil {
		return err
	}
	if err := opts.Store.Save(); err != nil {
		return err
	}

	opts.logger().Debug("provider added", zap.String("name", p.Name), zap.Strings("domains", p.Domains()))
	_, _ = fmt.Fprintf(opts.out(), "Added new provider %s\n", p.Name)
	return nil
}
