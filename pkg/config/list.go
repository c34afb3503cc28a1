package config

import (
	"fmt"
	"io"
)

// WriteProviders prints the numbered provider list.
func (c *Configuration) WriteProviders(w io.Writer) {
	for i, p := range c.Providers {
		_, _ = fmt.Fprintf(w, "[%d] %s\n", i+1, p.Name)
	}
	_, _ = fmt.Fprintln(w)
}

// WriteApps prints the numbered apps of the provider.
func (p *Provider) WriteApps(w io.Writer) {
	for i, a := range p.Apps {
		_, _ = fmt.Fprintf(w, "[%d] %s (%s)\n", i+1, a.Name, p.Name)
	}
}
