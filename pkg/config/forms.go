package config

import (
	"errors"
	"io"

	"github.com/prestocli/presto/pkg/forms"
)

// Prompt texts shared by the entity forms.
const (
	textChooseProvider = "Choose the provider"
	textChooseApp      = "Choose the application"
)

// ProviderForm validates the values of a new provider.
type ProviderForm struct {
	*forms.Form
	cfg *Configuration
}

// NewProviderForm creates a form for adding a provider to cfg.
func NewProviderForm(cfg *Configuration, values map[string]string, opts forms.Options) *ProviderForm {
	f := &ProviderForm{cfg: cfg}
	f.Form = forms.New(values, opts,
		&forms.Spec{
			Field:    forms.Char("name", "Enter the name of the provider (e.g. 'odesk')"),
			Validate: f.validateName,
		},
		&forms.Spec{Field: forms.Domain("domain_name", "Enter the domain name (may be comma-separated list)")},
		&forms.Spec{Field: forms.Choice("auth_type", "Enter the auth type: OAuth1.0 or [OAuth2.0]", AuthTypes...).WithDefault(AuthOAuth2)},
		&forms.Spec{Field: forms.URL("request_token_url", "Request token URL")},
		&forms.Spec{Field: forms.Choice("request_token_method", "Request token method ['POST']", Methods...).WithDefault(MethodPOST)},
		&forms.Spec{Field: forms.URL("access_token_url", "Access token URL")},
		&forms.Spec{Field: forms.Choice("access_token_method", "Access token method ['POST']", Methods...).WithDefault(MethodPOST)},
		&forms.Spec{Field: forms.URL("auth_url", "Auth URL")},
	)
	return f
}

func (f *ProviderForm) validateName(name string) (interface{}, error) {
	if _, err := f.cfg.ProviderByName(name); err == nil {
		return nil, forms.Invalid("Provider with name '%s' already exist.", name)
	}
	return name, nil
}

// Provider builds the provider from the cleaned values.
func (f *ProviderForm) Provider() *Provider {
	return &Provider{
		Name:               f.String("name"),
		DomainName:         f.String("domain_name"),
		AuthType:           f.String("auth_type"),
		RequestTokenURL:    f.String("request_token_url"),
		RequestTokenMethod: f.String("request_token_method"),
		AccessTokenURL:     f.String("access_token_url"),
		AccessTokenMethod:  f.String("access_token_method"),
		AuthURL:            f.String("auth_url"),
		Apps:               []*Application{},
	}
}

// ApplicationForm validates the values of a new application.
type ApplicationForm struct {
	*forms.Form
	cfg *Configuration
}

// NewApplicationForm creates a form for adding an app to one of the
// providers of cfg. The provider value is a 1-based position or a name.
func NewApplicationForm(cfg *Configuration, values map[string]string, opts forms.Options) *ApplicationForm {
	f := &ApplicationForm{cfg: cfg}
	f.Form = forms.New(values, opts,
		providerSpec(cfg),
		&forms.Spec{
			Field:    forms.Char("name", "Enter the name of the app ['default']").WithDefault(DefaultName),
			Validate: f.validateName,
			After:    []string{"provider"},
		},
		&forms.Spec{Field: forms.Char("public_key", "Enter the public key")},
		&forms.Spec{Field: forms.Char("secret_key", "Enter the secret key").Hidden()},
	)
	return f
}

func (f *ApplicationForm) validateName(name string) (interface{}, error) {
	if _, err := f.ProviderValue().AppByName(name); err == nil {
		return nil, forms.Invalid("App with same name already exist.")
	}
	return name, nil
}

// ProviderValue returns the resolved provider.
func (f *ApplicationForm) ProviderValue() *Provider {
	p, _ := f.Value("provider").(*Provider)
	return p
}

// Application builds the app from the cleaned values.
func (f *ApplicationForm) Application() *Application {
	return &Application{
		Name:      f.String("name"),
		PublicKey: f.String("public_key"),
		SecretKey: f.String("secret_key"),
		Tokens:    []*Token{},
	}
}

// TokenForm validates where a new token is stored. The token key and
// secret come from the OAuth handshake.
type TokenForm struct {
	*forms.Form
	update bool
}

// NewTokenForm creates a form selecting the provider, app and name of a
// token. With update set an existing token name is accepted and replaced.
func NewTokenForm(cfg *Configuration, values map[string]string, opts forms.Options, update bool) *TokenForm {
	f := &TokenForm{update: update}
	f.Form = forms.New(values, opts,
		providerSpec(cfg),
		&forms.Spec{
			Field:    forms.Char("app", textChooseApp),
			Validate: f.validateApp,
			List: func(w io.Writer) {
				if p := f.ProviderValue(); p != nil {
					p.WriteApps(w)
				}
			},
			After: []string{"provider"},
		},
		&forms.Spec{
			Field:    forms.Char("name", "Enter the name of the authorization ['default']").WithDefault(DefaultName),
			Validate: f.validateName,
			After:    []string{"app"},
		},
	)
	return f
}

func (f *TokenForm) validateApp(ref string) (interface{}, error) {
	a, err := f.ProviderValue().AppByRef(ref)
	if err != nil {
		return nil, asInvalid(err)
	}
	return a, nil
}

func (f *TokenForm) validateName(name string) (interface{}, error) {
	app := f.AppValue()
	if _, err := app.TokenByName(name); err == nil && !f.update {
		return nil, forms.AlreadyExist(name, "Token with name '%s' already exist on app '%s'.", name, app.Name)
	}
	return name, nil
}

// ProviderValue returns the resolved provider.
func (f *TokenForm) ProviderValue() *Provider {
	p, _ := f.Value("provider").(*Provider)
	return p
}

// AppValue returns the resolved application.
func (f *TokenForm) AppValue() *Application {
	a, _ := f.Value("app").(*Application)
	return a
}

// Replace reports whether the token replaces an existing one.
func (f *TokenForm) Replace() bool {
	return f.update || f.Overwrite("name")
}

func providerSpec(cfg *Configuration) *forms.Spec {
	return &forms.Spec{
		Field: forms.Char("provider", textChooseProvider),
		Validate: func(ref string) (interface{}, error) {
			p, err := cfg.ProviderByRef(ref)
			if err != nil {
				return nil, asInvalid(err)
			}
			return p, nil
		},
		List: cfg.WriteProviders,
	}
}

// asInvalid turns lookup failures into validation errors so that forms can
// ask again. Empty lists stay fatal since no answer can succeed.
func asInvalid(err error) error {
	if errors.Is(err, ErrNoProviders) || errors.Is(err, ErrNoApps) {
		return err
	}
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		return err
	}
	return forms.Invalid("%s", err.Error())
}
