package forms

import (
	"fmt"
	"strings"
)

// Kind identifies how a field cleans its raw input.
type Kind int

const (
	// KindChar accepts any text.
	KindChar Kind = iota
	// KindURL accepts an endpoint URL.
	KindURL
	// KindDomain accepts a comma-separated list of domain names.
	KindDomain
	// KindChoice accepts one of a fixed set of values.
	KindChoice
)

// Field describes one named input of a form.
type Field struct {
	Name     string
	Text     string
	Kind     Kind
	Required bool
	Default  string
	Choices  []string
	// Secret hides the input when prompting.
	Secret bool
}

// Char returns a required text field.
func Char(name, text string) *Field {
	return &Field{Name: name, Text: text, Kind: KindChar, Required: true}
}

// URL returns a required URL field.
func URL(name, text string) *Field {
	return &Field{Name: name, Text: text, Kind: KindURL, Required: true}
}

// Domain returns a required domain list field.
func Domain(name, text string) *Field {
	return &Field{Name: name, Text: text, Kind: KindDomain, Required: true}
}

// Choice returns a required field restricted to choices.
func Choice(name, text string, choices ...string) *Field {
	return &Field{Name: name, Text: text, Kind: KindChoice, Required: true, Choices: choices}
}

// WithDefault sets the value used when the input is empty.
func (f *Field) WithDefault(value string) *Field {
	f.Default = value
	return f
}

// Hidden marks the field input as secret.
func (f *Field) Hidden() *Field {
	f.Secret = true
	return f
}

// Optional marks the field as not required.
func (f *Field) Optional() *Field {
	f.Required = false
	return f
}

// Clean trims raw, applies the default and checks the value against the
// field kind.
func (f *Field) Clean(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		value = f.Default
	}

	if value == "" {
		if f.Required {
			return "", Invalid("Field is required.")
		}
		return "", nil
	}

	switch f.Kind {
	case KindDomain:
		value = normalizeDomains(value)
		if value == "" && f.Required {
			return "", Invalid("Field is required.")
		}
	case KindChoice:
		if !f.hasChoice(value) {
			return "", Invalid("Please specify valid choice: %s", fmt.Sprint(f.Choices))
		}
	}

	return value, nil
}

func (f *Field) hasChoice(value string) bool {
	for _, c := range f.Choices {
		if c == value {
			return true
		}
	}
	return false
}

// normalizeDomains trims each element of a comma-separated list and drops
// empty ones.
func normalizeDomains(value string) string {
	parts := strings.Split(value, ",")
	domains := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			domains = append(domains, p)
		}
	}
	return strings.Join(domains, ",")
}
