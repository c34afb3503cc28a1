// Package forms validates named input values against ordered field
// declarations.
//
// A Form holds a list of Specs. Each Spec pairs a Field with optional hooks:
// a custom validator that may resolve the raw string into a richer value, a
// prompt text generator, and a lister that prints choices before prompting.
// Fields are cleaned in declaration order, so a validator can read the
// resolved values of earlier fields.
//
// # Interactive and non-interactive use
//
// A non-interactive form records every failure in Errors and never prompts.
// An interactive form asks for missing values and re-prompts on validation
// failures until a valid value is entered or input ends:
//
//	form := forms.New(values, forms.Options{Interactive: true, Prompter: p},
//		&forms.Spec{Field: forms.Char("name", "Enter the name")},
//	)
//	if err := form.Clean(); err != nil {
//		return err
//	}
//	name := form.String("name")
//
// A validator that returns an AlreadyExistError lets the user confirm an
// overwrite; Overwrite reports whether that happened.
package forms

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter is the line-based terminal a form asks questions on.
type Prompter interface {
	// Say prints a line.
	Say(msg string)
	// Warn prints a validation message.
	Warn(msg string)
	// ReadLine reads one line of input without the trailing newline.
	ReadLine() (string, error)
	// ReadSecret reads one line without echoing it when possible.
	ReadSecret() (string, error)
	// Confirm asks a yes/no question.
	Confirm(question string) (bool, error)
	// Writer returns the output stream used by listers.
	Writer() io.Writer
}

// ValidateFunc checks a cleaned field value and returns the value stored in
// the form, which may be a resolved object rather than the string.
type ValidateFunc func(value string) (interface{}, error)

// Spec declares one form field with its hooks.
type Spec struct {
	Field *Field
	// Validate runs after the field's own cleaning.
	Validate ValidateFunc
	// Text overrides Field.Text when prompting.
	Text func() string
	// List prints extra information after the prompt text.
	List func(w io.Writer)
	// After names fields that must be valid before this one is cleaned.
	After []string
}

// Options controls how a form gets its values.
type Options struct {
	Interactive bool
	Prompter    Prompter
}

// Form validates a set of raw values.
type Form struct {
	specs     []*Spec
	values    map[string]string
	opts      Options
	cleaned   map[string]interface{}
	overwrite map[string]bool
	errors    Errors
	done      bool
}

// New creates a form over values.
func New(values map[string]string, opts Options, specs ...*Spec) *Form {
	if values == nil {
		values = make(map[string]string)
	}
	return &Form{
		specs:     specs,
		values:    values,
		opts:      opts,
		cleaned:   make(map[string]interface{}),
		overwrite: make(map[string]bool),
	}
}

// Clean validates every field in order. It returns the collected Errors when
// a field is invalid, or the input error when prompting had to stop.
func (f *Form) Clean() error {
	f.cleaned = make(map[string]interface{})
	f.overwrite = make(map[string]bool)
	f.errors = nil
	f.done = true

	for _, s := range f.specs {
		name := s.Field.Name
		if f.blocked(s) {
			continue
		}

		value, err := f.cleanField(s)
		if err == nil {
			f.cleaned[name] = value
			continue
		}

		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		f.errors = append(f.errors, FieldError{Field: name, Message: verr.Message})
	}

	if len(f.errors) > 0 {
		return f.errors
	}
	return nil
}

// IsValid reports whether the last Clean succeeded.
func (f *Form) IsValid() bool {
	return f.done && len(f.errors) == 0
}

// Errors returns the errors of the last Clean.
func (f *Form) Errors() Errors {
	return f.errors
}

// Value returns the cleaned value of a field.
func (f *Form) Value(name string) interface{} {
	return f.cleaned[name]
}

// String returns the cleaned value of a field as a string.
func (f *Form) String(name string) string {
	switch v := f.cleaned[name].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Raw returns the value supplied for a field before cleaning.
func (f *Form) Raw(name string) string {
	return f.values[name]
}

// Overwrite reports whether the user confirmed replacing an existing entry
// for the field.
func (f *Form) Overwrite(name string) bool {
	return f.overwrite[name]
}

func (f *Form) interactive() bool {
	return f.opts.Interactive && f.opts.Prompter != nil
}

func (f *Form) blocked(s *Spec) bool {
	for _, dep := range s.After {
		if _, ok := f.cleaned[dep]; !ok {
			return true
		}
	}
	return false
}

func (f *Form) cleanField(s *Spec) (interface{}, error) {
	raw := f.values[s.Field.Name]
	if strings.TrimSpace(raw) == "" && f.interactive() {
		return f.ask(s)
	}

	value, err := f.validate(s, raw)
	if err == nil || !f.interactive() {
		return value, err
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}
	f.opts.Prompter.Warn(err.Error())
	return f.ask(s)
}

func (f *Form) validate(s *Spec, raw string) (interface{}, error) {
	value, err := s.Field.Clean(raw)
	if err != nil {
		return nil, err
	}
	if s.Validate == nil {
		return value, nil
	}
	return s.Validate(value)
}

// ask prompts until the field validates, the user declines an overwrite, or
// input ends.
func (f *Form) ask(s *Spec) (interface{}, error) {
	p := f.opts.Prompter
	name := s.Field.Name

	text := s.Field.Text
	if s.Text != nil {
		text = s.Text()
	}
	p.Say(text + ":")
	if s.List != nil {
		s.List(p.Writer())
	}

	read := p.ReadLine
	if s.Field.Secret {
		read = p.ReadSecret
	}

	for {
		line, err := read()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		value, err := f.validate(s, line)
		if err == nil {
			return value, nil
		}

		var exists *AlreadyExistError
		if errors.As(err, &exists) {
			p.Warn(exists.Message)
			ok, cerr := p.Confirm(fmt.Sprintf("Rewrite '%s'?", exists.Value))
			if cerr != nil {
				return nil, fmt.Errorf("reading %s: %w", name, cerr)
			}
			if !ok {
				return nil, err
			}
			f.overwrite[name] = true
			return exists.Value, nil
		}

		var verr *ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		p.Warn(verr.Message)
	}
}
