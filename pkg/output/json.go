package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

// JSONFormatter formats output as JSON with optional pretty printing and
// colors.
type JSONFormatter struct {
	indent string
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{
		indent: "  ",
	}
}

// Name returns the formatter name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Supports returns true if the formatter can handle the given data type.
// JSON formatter can handle any data type.
func (f *JSONFormatter) Supports(data interface{}) bool {
	return true
}

// SetIndent sets the indentation string for pretty printing.
func (f *JSONFormatter) SetIndent(indent string) *JSONFormatter {
	f.indent = indent
	return f
}

// Format formats the data as JSON and writes it to the writer.
func (f *JSONFormatter) Format(w io.Writer, data interface{}, config *FormatConfig) error {
	if config == nil {
		config = NewFormatConfig()
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if config.Pretty {
		encoder.SetIndent("", f.indent)
	}
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	out := buf.Bytes()
	if config.Colors {
		out = []byte(Colorize(string(out)))
	}
	_, err := w.Write(out)
	return err
}

// FormatRaw re-indents a JSON document. Input that is not JSON is written
// unchanged.
func (f *JSONFormatter) FormatRaw(w io.Writer, raw []byte, config *FormatConfig) error {
	var data interface{}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&data); err != nil {
		_, werr := w.Write(raw)
		if werr == nil && len(raw) > 0 && raw[len(raw)-1] != '\n' {
			_, werr = w.Write([]byte("\n"))
		}
		return werr
	}
	return f.Format(w, data, config)
}

// Colorize highlights a JSON document with ANSI colors. The document is
// returned unchanged if it cannot be highlighted.
func Colorize(doc string) string {
	var b bytes.Buffer
	if err := quick.Highlight(&b, doc, "json", "terminal256", "monokai"); err != nil {
		return doc
	}
	return b.String()
}
