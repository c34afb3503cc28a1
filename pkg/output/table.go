package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pterm/pterm"
)

// TableFormatter formats a list of records as a table using pterm.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Name returns the formatter name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Supports returns true for records: a map or a slice of maps.
func (f *TableFormatter) Supports(data interface{}) bool {
	switch data.(type) {
	case []map[string]interface{}, map[string]interface{}:
		return true
	}
	return false
}

// Format formats the data as a table and writes it to the writer.
func (f *TableFormatter) Format(w io.Writer, data interface{}, config *FormatConfig) error {
	if config == nil {
		config = NewFormatConfig()
	}

	var rows []map[string]interface{}
	switch v := data.(type) {
	case []map[string]interface{}:
		rows = v
	case map[string]interface{}:
		rows = []map[string]interface{}{v}
	default:
		return fmt.Errorf("unsupported data type for table formatting: %T", data)
	}

	columns := config.Columns
	if len(columns) == 0 {
		columns = keysOf(rows)
	}
	if len(columns) == 0 {
		return nil
	}

	tableData := make([][]string, 0, len(rows)+1)
	if config.ShowHeaders {
		headers := make([]string, len(columns))
		for i, col := range columns {
			headers[i] = strings.ToUpper(col)
		}
		tableData = append(tableData, headers)
	}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = formatValue(row[col])
		}
		tableData = append(tableData, cells)
	}

	table := pterm.DefaultTable.WithHasHeader(config.ShowHeaders).WithData(tableData)
	if config.Colors {
		table = table.WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold))
	} else {
		table = table.WithHeaderStyle(pterm.NewStyle()).WithSeparatorStyle(pterm.NewStyle())
	}

	rendered, err := table.Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	_, err = fmt.Fprintln(w, rendered)
	return err
}

// keysOf returns the sorted union of keys whose values are scalars.
func keysOf(rows []map[string]interface{}) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, row := range rows {
		for k, v := range row {
			if seen[k] || !isScalar(v) {
				continue
			}
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func isScalar(v interface{}) bool {
	switch v.(type) {
	case []interface{}, map[string]interface{}, []map[string]interface{}:
		return false
	}
	return true
}

// formatValue formats a cell value as a string.
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []interface{}:
		return fmt.Sprintf("%d items", len(v))
	default:
		return fmt.Sprint(v)
	}
}
