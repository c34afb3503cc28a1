package builtin

import (
	"context"
	"errors"
	"fmt"

	"github.com/prestocli/presto/pkg/auth"
	"github.com/prestocli/presto/pkg/config"
	"github.com/prestocli/presto/pkg/forms"
	"github.com/prestocli/presto/pkg/progress"
	"github.com/prestocli/presto/pkg/secrets"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewTokenCommand creates the token command group.
func NewTokenCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage access tokens",
		Long: `Manage access tokens. A token is obtained through the OAuth1.0
handshake: presto fetches a request token, shows the authorize URL, and
exchanges the verifier you paste back for an access token.`,
	}

	cmd.AddCommand(newTokenListCommand(opts))
	cmd.AddCommand(newTokenAddCommand(opts))

	return cmd
}

func newTokenListCommand(opts *Options) *cobra.Command {
	lo := &listOptions{}
	var provider, app string
	var showKeys bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List access tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadProviders()
			if err != nil {
				return err
			}

			providers := cfg.Providers
			if provider != "" {
				p, err := cfg.ProviderByRef(provider)
				if err != nil {
					return err
				}
				providers = []*config.Provider{p}
			}

			records, err := tokenRecords(providers, app, showKeys)
			if err != nil {
				return err
			}
			return opts.writeRecords(lo, records, func(r map[string]interface{}) string {
				return fmt.Sprintf("%v (%v, %v)", r["name"], r["app"], r["provider"])
			})
		},
	}
	addListFlags(cmd, lo)
	cmd.Flags().StringVar(&provider, "provider", "", "Provider name or number")
	cmd.Flags().StringVar(&app, "app", "", "App name or number (requires --provider)")
	cmd.Flags().BoolVar(&showKeys, "show-keys", false, "Print token keys unmasked")
	_ = cmd.RegisterFlagCompletionFunc("provider", ProviderCompletion(opts))
	return cmd
}

func tokenRecords(providers []*config.Provider, app string, showKeys bool) ([]map[string]interface{}, error) {
	var records []map[string]interface{}
	for _, p := range providers {
		apps := p.Apps
		if app != "" {
			a, err := p.AppByRef(app)
			if err != nil {
				return nil, err
			}
			apps = []*config.Application{a}
		}
		for _, a := range apps {
			for _, t := range a.Tokens {
				records = append(records, map[string]interface{}{
					"index":        len(records) + 1,
					"name":         t.Name,
					"app":          a.Name,
					"provider":     p.Name,
					"token_key":    maskKey(t.TokenKey, showKeys),
					"token_secret": maskKey(t.TokenSecret, showKeys),
				})
			}
		}
	}
	return records, nil
}

// tokenAddOptions are the flags of token add.
type tokenAddOptions struct {
	provider string
	app      string
	update   bool
	open     bool
	callback string
	verifier string
}

func newTokenAddCommand(opts *Options) *cobra.Command {
	to := &tokenAddOptions{}

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Obtain and store an access token",
		Long: `Obtain an access token through the OAuth1.0 handshake and store it
under the given name (default 'default'). An existing token with the same
name is only replaced with --update or after confirmation.`,
		Example: `  presto token add
  presto token add default --provider=twitter --app=default --open`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := map[string]string{
				"provider": to.provider,
				"app":      to.app,
			}
			if len(args) > 0 {
				values["name"] = args[0]
			}
			return runTokenAdd(cmd.Context(), opts, to, values)
		},
	}

	cmd.Flags().StringVar(&to.provider, "provider", "", "Provider name or number")
	cmd.Flags().StringVar(&to.app, "app", "", "App name or number")
	cmd.Flags().BoolVar(&to.update, "update", false, "Replace a token with the same name")
	cmd.Flags().BoolVar(&to.open, "open", false, "Open the authorize URL in the browser")
	cmd.Flags().StringVar(&to.callback, "callback", "", "oauth_callback passed to the authorize URL")
	cmd.Flags().StringVar(&to.verifier, "verifier", "", "oauth_verifier, skips the prompt")
	_ = cmd.RegisterFlagCompletionFunc("provider", ProviderCompletion(opts))

	return cmd
}

func runTokenAdd(ctx context.Context, opts *Options, to *tokenAddOptions, values map[string]string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.logger()
	out := opts.out()

	cfg, err := opts.loadProviders()
	if err != nil {
		return err
	}

	form := config.NewTokenForm(cfg, values, opts.formOptions(values, "provider", "app"), to.update)
	if err := form.Clean(); err != nil {
		return err
	}
	p := form.ProviderValue()
	app := form.AppValue()
	name := form.String("name")

	if p.AuthType != config.AuthOAuth1 {
		return &config.ConfigurationError{
			Message: fmt.Sprintf("Provider '%s' uses %s. Tokens can only be obtained for %s providers.", p.Name, p.AuthType, config.AuthOAuth1),
		}
	}
	_, _ = fmt.Fprintf(out, "Using '%s'\n", p.AuthType)

	hs := auth.NewHandshake(auth.Consumer{Key: app.PublicKey, Secret: app.SecretKey},
		auth.WithHTTPClient(opts.client()),
		auth.WithLogger(logger))

	var request *auth.Credentials
	err = progress.Run(opts.progress(), "Requesting token", func() error {
		var err error
		request, err = hs.RequestToken(ctx, p.RequestTokenURL, p.RequestTokenMethod)
		return err
	})
	if err != nil {
		return err
	}

	link, err := auth.AuthorizeURL(p.AuthURL, request.Token, to.callback)
	if err != nil {
		return err
	}
	logger.Debug("authorize url built", zap.String("url", secrets.MaskURL(link)))

	var opener auth.BrowserOpener
	if to.open {
		opener = opts.Browser
		if opener == nil {
			opener = &auth.SystemBrowserOpener{}
		}
	}
	auth.ShowAuthorizeURL(opener, link, out)

	access, err := exchangeVerifier(ctx, opts, hs, p, to.verifier)
	if err != nil {
		return err
	}

	token := &config.Token{Name: name, TokenKey: access.Token, TokenSecret: access.Secret}
	replaced := false
	if form.Replace() {
		replaced = app.PutToken(token)
	} else if err := app.AddToken(token); err != nil {
		return err
	}
	if err := opts.Store.Save(); err != nil {
		return err
	}

	logger.Debug("token stored",
		zap.String("provider", p.Name),
		zap.String("app", app.Name),
		zap.String("token", name),
		zap.Bool("replaced", replaced))
	if replaced {
		_, _ = fmt.Fprintf(out, "The token '%s' is updated.\n", name)
	} else {
		_, _ = fmt.Fprintf(out, "The token is saved as '%s'.\n", name)
	}
	return nil
}

// exchangeVerifier asks for the verifier until the provider accepts it.
// A rejected verifier is a validation error so the prompt repeats.
func exchangeVerifier(ctx context.Context, opts *Options, hs *auth.Handshake, p *config.Provider, verifier string) (*auth.Credentials, error) {
	const field = "oauth_verifier"
	values := map[string]string{field: verifier}

	form := forms.New(values, opts.formOptions(values, field), &forms.Spec{
		Field: forms.Char(field, "Enter 'oauth_verifier' that you got"),
		Validate: func(v string) (interface{}, error) {
			var access *auth.Credentials
			err := progress.Run(opts.progress(), "Exchanging verifier", func() error {
				var err error
				access, err = hs.AccessToken(ctx, p.AccessTokenURL, p.AccessTokenMethod, v)
				return err
			})
			var herr *auth.HandshakeError
			if errors.As(err, &herr) {
				return nil, forms.Invalid("%s", herr.Error())
			}
			if err != nil {
				return nil, err
			}
			return access, nil
		},
	})
	if err := form.Clean(); err != nil {
		return nil, err
	}

	access, _ := form.Value(field).(*auth.Credentials)
	return access, nil
}
