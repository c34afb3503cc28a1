package output

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var (
	exprPattern     = regexp.MustCompile(`\{\{([^}]+)\}\}`)
	variablePattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_\.]*)\}`)
)

// TemplateEngine renders message templates with variable interpolation.
// It supports simple variable substitution ({name}, {object.field}) and
// expr expressions ({{len(apps)}}).
type TemplateEngine struct {
	programCache map[string]*vm.Program
}

// NewTemplateEngine creates a new template engine.
func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{
		programCache: make(map[string]*vm.Program),
	}
}

// Render renders a template string with the given data.
func (t *TemplateEngine) Render(template string, data map[string]interface{}) (string, error) {
	if template == "" {
		return "", nil
	}
	if data == nil {
		data = make(map[string]interface{})
	}

	result, err := t.replace(exprPattern, template, func(expression string) (interface{}, error) {
		return t.evaluate(expression, data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to evaluate expression: %w", err)
	}

	result, err = t.replace(variablePattern, result, func(path string) (interface{}, error) {
		return resolveVariable(path, data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve variable: %w", err)
	}

	return result, nil
}

func (t *TemplateEngine) replace(re *regexp.Regexp, template string, eval func(string) (interface{}, error)) (string, error) {
	var lastErr error
	result := re.ReplaceAllStringFunc(template, func(match string) string {
		inner := strings.TrimSpace(re.FindStringSubmatch(match)[1])
		value, err := eval(inner)
		if err != nil {
			lastErr = err
			return match
		}
		return fmt.Sprint(value)
	})
	return result, lastErr
}

// Match evaluates a boolean expression against data.
func (t *TemplateEngine) Match(expression string, data map[string]interface{}) (bool, error) {
	value, err := t.evaluate(expression, data)
	if err != nil {
		return false, err
	}
	ok, isBool := value.(bool)
	if !isBool {
		return false, fmt.Errorf("expression '%s' must evaluate to a boolean, got %T", expression, value)
	}
	return ok, nil
}

func (t *TemplateEngine) evaluate(expression string, data map[string]interface{}) (interface{}, error) {
	program, ok := t.programCache[expression]
	if !ok {
		var err error
		program, err = expr.Compile(expression, expr.Env(data), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("failed to compile expression '%s': %w", expression, err)
		}
		t.programCache[expression] = program
	}

	result, err := expr.Run(program, data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute expression '%s': %w", expression, err)
	}
	return result, nil
}

// resolveVariable resolves a variable path like "name" or "app.name".
func resolveVariable(path string, data map[string]interface{}) (interface{}, error) {
	var current interface{} = data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("cannot access field '%s' on non-map type", part)
		}
		val, ok := m[part]
		if !ok {
			return nil, fmt.Errorf("variable '%s' not found", path)
		}
		current = val
	}
	return current, nil
}

// Filter returns the records for which expression is true. An empty
// expression keeps every record.
func (t *TemplateEngine) Filter(records []map[string]interface{}, expression string) ([]map[string]interface{}, error) {
	if strings.TrimSpace(expression) == "" {
		return records, nil
	}

	out := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		ok, err := t.Match(expression, r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// TemplateFormatter renders each record with FormatConfig.Template, one line
// per record.
type TemplateFormatter struct {
	engine *TemplateEngine
}

// NewTemplateFormatter creates a new template formatter.
func NewTemplateFormatter() *TemplateFormatter {
	return &TemplateFormatter{engine: NewTemplateEngine()}
}

// Name returns the formatter name.
func (f *TemplateFormatter) Name() string {
	return "template"
}

// Supports returns true for records.
func (f *TemplateFormatter) Supports(data interface{}) bool {
	switch data.(type) {
	case []map[string]interface{}, map[string]interface{}:
		return true
	}
	return false
}

// Format renders the template for every record.
func (f *TemplateFormatter) Format(w io.Writer, data interface{}, config *FormatConfig) error {
	if config == nil || config.Template == "" {
		return fmt.Errorf("template output requires a template")
	}

	var rows []map[string]interface{}
	switch v := data.(type) {
	case []map[string]interface{}:
		rows = v
	case map[string]interface{}:
		rows = []map[string]interface{}{v}
	default:
		return fmt.Errorf("unsupported data type for template formatting: %T", data)
	}

	for _, row := range rows {
		line, err := f.engine.Render(config.Template, row)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
