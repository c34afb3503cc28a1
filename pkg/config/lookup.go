package config

import (
	"strconv"
	"strings"

	"github.com/prestocli/presto/pkg/forms"
)

// ProviderByID returns the provider at a 1-based position.
func (c *Configuration) ProviderByID(id string) (*Provider, error) {
	n, err := position(id, "Provider")
	if err != nil {
		return nil, err
	}
	if len(c.Providers) == 0 {
		return nil, ErrNoProviders
	}
	if n < 1 || n > len(c.Providers) {
		return nil, forms.Invalid("Provider must be from 1 to %d.", len(c.Providers))
	}
	return c.Providers[n-1], nil
}

// ProviderByName returns the provider called name.
func (c *Configuration) ProviderByName(name string) (*Provider, error) {
	if len(c.Providers) == 0 {
		return nil, ErrNoProviders
	}
	for _, p := range c.Providers {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, notFound("Provider with name '%s' not found.", name)
}

// ProviderByDomain returns the first provider whose domain list contains
// domain.
func (c *Configuration) ProviderByDomain(domain string) (*Provider, error) {
	if len(c.Providers) == 0 {
		return nil, ErrNoProviders
	}
	for _, p := range c.Providers {
		if p.HasDomain(domain) {
			return p, nil
		}
	}
	return nil, notFound("Provider for domain '%s' not found.", domain)
}

// ProviderByRef resolves a 1-based position or a provider name.
func (c *Configuration) ProviderByRef(ref string) (*Provider, error) {
	if isNumber(ref) {
		return c.ProviderByID(ref)
	}
	return c.ProviderByName(ref)
}

// HasDomain reports whether domain is an element of the provider's
// comma-separated domain list.
func (p *Provider) HasDomain(domain string) bool {
	for _, d := range p.Domains() {
		if d == domain {
			return true
		}
	}
	return false
}

// Domains splits the provider's domain list.
func (p *Provider) Domains() []string {
	var domains []string
	for _, d := range strings.Split(p.DomainName, ",") {
		if d = strings.TrimSpace(d); d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}

// AppByID returns the app at a 1-based position.
func (p *Provider) AppByID(id string) (*Application, error) {
	n, err := position(id, "App")
	if err != nil {
		return nil, err
	}
	if len(p.Apps) == 0 {
		return nil, ErrNoApps
	}
	if n < 1 || n > len(p.Apps) {
		return nil, forms.Invalid("App must be from 1 to %d.", len(p.Apps))
	}
	return p.Apps[n-1], nil
}

// AppByName returns the app called name.
func (p *Provider) AppByName(name string) (*Application, error) {
	if len(p.Apps) == 0 {
		return nil, ErrNoApps
	}
	names := make([]string, 0, len(p.Apps))
	for _, a := range p.Apps {
		if a.Name == name {
			return a, nil
		}
		names = append(names, a.Name)
	}
	return nil, notFound("App with name '%s' not found for provider '%s'.\nAvailable:\n  %s",
		name, p.Name, strings.Join(names, "\n  "))
}

// AppByRef resolves a 1-based position or an app name.
func (p *Provider) AppByRef(ref string) (*Application, error) {
	if isNumber(ref) {
		return p.AppByID(ref)
	}
	return p.AppByName(ref)
}

// TokenByName returns the token called name.
func (a *Application) TokenByName(name string) (*Token, error) {
	for _, t := range a.Tokens {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, notFound("Token with name '%s' not found.", name)
}

// AddProvider appends a provider with a unique name.
func (c *Configuration) AddProvider(p *Provider) error {
	for _, existing := range c.Providers {
		if existing.Name == p.Name {
			return forms.Invalid("Provider with name '%s' already exist.", p.Name)
		}
	}
	c.Providers = append(c.Providers, p)
	c.link()
	return nil
}

// AddApp appends an app with a name unique within the provider.
func (p *Provider) AddApp(a *Application) error {
	for _, existing := range p.Apps {
		if existing.Name == a.Name {
			return forms.Invalid("App with same name already exist.")
		}
	}
	if a.Tokens == nil {
		a.Tokens = []*Token{}
	}
	a.provider = p
	p.Apps = append(p.Apps, a)
	return nil
}

// AddToken appends a token with a name unique within the app.
func (a *Application) AddToken(t *Token) error {
	if _, err := a.TokenByName(t.Name); err == nil {
		return forms.AlreadyExist(t.Name, "Token with name '%s' already exist on app '%s'.", t.Name, a.Name)
	}
	t.app = a
	a.Tokens = append(a.Tokens, t)
	return nil
}

// PutToken stores t, replacing the token with the same name. It reports
// whether an existing token was replaced.
func (a *Application) PutToken(t *Token) bool {
	t.app = a
	for i, existing := range a.Tokens {
		if existing.Name == t.Name {
			a.Tokens[i] = t
			return true
		}
	}
	a.Tokens = append(a.Tokens, t)
	return false
}

func position(id, kind string) (int, error) {
	if !isNumber(id) {
		return 0, forms.Invalid("%s argument must be integer.", kind)
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, forms.Invalid("%s argument must be integer.", kind)
	}
	return n, nil
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
