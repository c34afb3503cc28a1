package config

// Authentication types a provider can declare.
const (
	AuthOAuth1 = "OAuth1.0"
	AuthOAuth2 = "OAuth2.0"
)

// HTTP methods accepted for token endpoints.
const (
	MethodPOST = "POST"
	MethodGET  = "GET"
)

// AuthTypes lists the valid provider auth types.
var AuthTypes = []string{AuthOAuth1, AuthOAuth2}

// Methods lists the valid token endpoint methods.
var Methods = []string{MethodPOST, MethodGET}

// DefaultName is the name used for apps and tokens when none is given.
const DefaultName = "default"

// Configuration is the root of the provider tree.
type Configuration struct {
	Providers []*Provider `json:"providers"`
}

// Provider is an OAuth service with its token endpoints and registered apps.
type Provider struct {
	Name               string         `json:"name"`
	DomainName         string         `json:"domain_name"`
	AuthType           string         `json:"auth_type"`
	RequestTokenURL    string         `json:"request_token_url"`
	RequestTokenMethod string         `json:"request_token_method"`
	AccessTokenURL     string         `json:"access_token_url"`
	AccessTokenMethod  string         `json:"access_token_method"`
	AuthURL            string         `json:"auth_url"`
	Apps               []*Application `json:"apps"`
}

// Application is a consumer key pair registered with a provider.
type Application struct {
	Name      string   `json:"name"`
	PublicKey string   `json:"public_key"`
	SecretKey string   `json:"secret_key"`
	Tokens    []*Token `json:"tokens"`

	provider *Provider
}

// Token is an access token issued to an application.
type Token struct {
	Name        string `json:"name"`
	TokenKey    string `json:"token_key"`
	TokenSecret string `json:"token_secret"`

	app *Application
}

// Provider returns the provider owning the app.
func (a *Application) Provider() *Provider {
	return a.provider
}

// App returns the application owning the token.
func (t *Token) App() *Application {
	return t.app
}

// String returns the provider name.
func (p *Provider) String() string {
	return p.Name
}

// String returns the app name.
func (a *Application) String() string {
	return a.Name
}

// String returns the token name.
func (t *Token) String() string {
	return t.Name
}

// link sets parent pointers and replaces nil slices so that every list is
// encoded as an array.
func (c *Configuration) link() {
	if c.Providers == nil {
		c.Providers = []*Provider{}
	}
	for _, p := range c.Providers {
		if p.Apps == nil {
			p.Apps = []*Application{}
		}
		for _, a := range p.Apps {
			a.provider = p
			if a.Tokens == nil {
				a.Tokens = []*Token{}
			}
			for _, t := range a.Tokens {
				t.app = a
			}
		}
	}
}

// ToMap converts the configuration into plain data.
func (c *Configuration) ToMap() map[string]interface{} {
	providers := make([]interface{}, 0, len(c.Providers))
	for _, p := range c.Providers {
		providers = append(providers, p.ToMap())
	}
	return map[string]interface{}{"providers": providers}
}

// ToMap converts the provider into plain data.
func (p *Provider) ToMap() map[string]interface{} {
	apps := make([]interface{}, 0, len(p.Apps))
	for _, a := range p.Apps {
		apps = append(apps, a.ToMap())
	}
	return map[string]interface{}{
		"name":                 p.Name,
		"domain_name":          p.DomainName,
		"auth_type":            p.AuthType,
		"request_token_url":    p.RequestTokenURL,
		"request_token_method": p.RequestTokenMethod,
		"access_token_url":     p.AccessTokenURL,
		"access_token_method":  p.AccessTokenMethod,
		"auth_url":             p.AuthURL,
		"apps":                 apps,
	}
}

// ToMap converts the application into plain data.
func (a *Application) ToMap() map[string]interface{} {
	tokens := make([]interface{}, 0, len(a.Tokens))
	for _, t := range a.Tokens {
		tokens = append(tokens, t.ToMap())
	}
	return map[string]interface{}{
		"name":       a.Name,
		"public_key": a.PublicKey,
		"secret_key": a.SecretKey,
		"tokens":     tokens,
	}
}

// ToMap converts the token into plain data.
func (t *Token) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"name":         t.Name,
		"token_key":    t.TokenKey,
		"token_secret": t.TokenSecret,
	}
}

// FromMap builds a configuration from plain data. Missing keys become empty
// values.
func FromMap(m map[string]interface{}) *Configuration {
	c := &Configuration{}
	for _, item := range listOf(m["providers"]) {
		c.Providers = append(c.Providers, ProviderFromMap(item))
	}
	c.link()
	return c
}

// ProviderFromMap builds a provider from plain data.
func ProviderFromMap(m map[string]interface{}) *Provider {
	p := &Provider{
		Name:               stringOf(m["name"]),
		DomainName:         stringOf(m["domain_name"]),
		AuthType:           stringOf(m["auth_type"]),
		RequestTokenURL:    stringOf(m["request_token_url"]),
		RequestTokenMethod: stringOf(m["request_token_method"]),
		AccessTokenURL:     stringOf(m["access_token_url"]),
		AccessTokenMethod:  stringOf(m["access_token_method"]),
		AuthURL:            stringOf(m["auth_url"]),
		Apps:               []*Application{},
	}
	for _, item := range listOf(m["apps"]) {
		p.Apps = append(p.Apps, ApplicationFromMap(item))
	}
	return p
}

// ApplicationFromMap builds an application from plain data.
func ApplicationFromMap(m map[string]interface{}) *Application {
	a := &Application{
		Name:      stringOf(m["name"]),
		PublicKey: stringOf(m["public_key"]),
		SecretKey: stringOf(m["secret_key"]),
		Tokens:    []*Token{},
	}
	for _, item := range listOf(m["tokens"]) {
		a.Tokens = append(a.Tokens, TokenFromMap(item))
	}
	return a
}

// TokenFromMap builds a token from plain data.
func TokenFromMap(m map[string]interface{}) *Token {
	return &Token{
		Name:        stringOf(m["name"]),
		TokenKey:    stringOf(m["token_key"]),
		TokenSecret: stringOf(m["token_secret"]),
	}
}

func stringOf(v interface{}) string {
	s, _ := v.(string)
	return s
}

func listOf(v interface{}) []map[string]interface{} {
	items, _ := v.([]interface{})
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}
