package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Manager holds the registered formatters.
type Manager struct {
	formatters    map[string]Formatter
	defaultFormat string
	config        *FormatConfig
	engine        *TemplateEngine
}

// NewManager creates a new output manager with default formatters.
func NewManager() *Manager {
	m := &Manager{
		formatters:    make(map[string]Formatter),
		defaultFormat: "json",
		config:        NewFormatConfig(),
		engine:        NewTemplateEngine(),
	}

	m.RegisterFormatter(NewJSONFormatter())
	m.RegisterFormatter(NewYAMLFormatter())
	m.RegisterFormatter(NewTableFormatter())
	m.RegisterFormatter(NewTemplateFormatter())

	return m
}

// RegisterFormatter registers a new formatter.
func (m *Manager) RegisterFormatter(formatter Formatter) {
	m.formatters[formatter.Name()] = formatter
}

// GetFormatter returns a formatter by name.
func (m *Manager) GetFormatter(name string) (Formatter, error) {
	formatter, ok := m.formatters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("formatter '%s' not found (available: %s)", name, strings.Join(m.Names(), ", "))
	}
	return formatter, nil
}

// Names returns the registered formatter names.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.formatters))
	for name := range m.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetDefaultFormat sets the default output format.
func (m *Manager) SetDefaultFormat(format string) {
	m.defaultFormat = format
}

// Config returns the default format configuration.
func (m *Manager) Config() *FormatConfig {
	return m.config
}

// SetConfig sets the default format configuration.
func (m *Manager) SetConfig(config *FormatConfig) {
	m.config = config
}

// Format formats data using the named format and the default config.
func (m *Manager) Format(w io.Writer, data interface{}, format string) error {
	return m.FormatWithConfig(w, data, format, m.config)
}

// FormatWithConfig formats data using the named format and config.
func (m *Manager) FormatWithConfig(w io.Writer, data interface{}, format string, config *FormatConfig) error {
	if format == "" {
		format = m.defaultFormat
	}

	formatter, err := m.GetFormatter(format)
	if err != nil {
		return err
	}
	if !formatter.Supports(data) {
		return fmt.Errorf("formatter '%s' does not support data type %T", format, data)
	}

	return formatter.Format(w, data, config)
}

// Filter keeps the records matching an expr expression.
func (m *Manager) Filter(records []map[string]interface{}, expression string) ([]map[string]interface{}, error) {
	return m.engine.Filter(records, expression)
}
