// Package output renders command results as JSON, YAML, tables or
// user-supplied templates.
package output

import (
	"io"
)

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format formats the given data according to the formatter's rules
	// and writes the output to the provided writer.
	Format(w io.Writer, data interface{}, config *FormatConfig) error

	// Name returns the name of the formatter (e.g., "json", "yaml", "table").
	Name() string

	// Supports returns true if the formatter can handle the given data type.
	Supports(data interface{}) bool
}

// FormatConfig contains configuration options for formatting output.
type FormatConfig struct {
	// Pretty enables pretty-printing (for JSON)
	Pretty bool

	// Colors enables colored output
	Colors bool

	// ShowHeaders controls header display (for tables)
	ShowHeaders bool

	// Columns selects and orders table columns. Empty means all keys.
	Columns []string

	// Template is rendered once per item by the template formatter
	Template string
}

// NewFormatConfig creates a new FormatConfig with sensible defaults.
func NewFormatConfig() *FormatConfig {
	return &FormatConfig{
		Pretty:      true,
		ShowHeaders: true,
	}
}

// WithPretty sets the pretty-printing option.
func (c *FormatConfig) WithPretty(pretty bool) *FormatConfig {
	c.Pretty = pretty
	return c
}

// WithColors sets the colors option.
func (c *FormatConfig) WithColors(colors bool) *FormatConfig {
	c.Colors = colors
	return c
}

// WithColumns sets the table columns.
func (c *FormatConfig) WithColumns(columns ...string) *FormatConfig {
	c.Columns = columns
	return c
}

// WithTemplate sets the per-item template.
func (c *FormatConfig) WithTemplate(template string) *FormatConfig {
	c.Template = template
	return c
}
