package builtin

import (
	"fmt"
	"strings"

	"github.com/prestocli/presto/pkg/output"
	"github.com/spf13/cobra"
)

const formatText = "text"

// listOptions are the flags of the list commands.
type listOptions struct {
	format   string
	template string
	filter   string
	columns  []string
}

func addListFlags(cmd *cobra.Command, lo *listOptions) {
	cmd.Flags().StringVarP(&lo.format, "output", "o", "", "Output format (text|json|yaml|table|template)")
	cmd.Flags().StringVar(&lo.template, "template", "", "Template rendered per item, e.g. '{name}: {{len(apps)}} apps'")
	cmd.Flags().StringVar(&lo.filter, "filter", "", "Expression selecting items, e.g. 'auth_type == \"OAuth1.0\"'")
	cmd.Flags().StringSliceVar(&lo.columns, "columns", nil, "Table columns")
	_ = cmd.RegisterFlagCompletionFunc("output", FixedCompletion(formatText, "json", "yaml", "table", "template"))
}

// writeRecords filters records and prints them. The text format numbers
// each record with its "index" and label.
func (o *Options) writeRecords(lo *listOptions, records []map[string]interface{}, label func(map[string]interface{}) string) error {
	m := o.formatter()
	records, err := m.Filter(records, lo.filter)
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	format := lo.format
	switch {
	case format != "":
	case lo.template != "":
		format = "template"
	default:
		format = o.DefaultFormat
	}
	if format == "" || strings.EqualFold(format, formatText) {
		w := o.out()
		for _, r := range records {
			_, _ = fmt.Fprintf(w, "[%v] %s\n", r["index"], label(r))
		}
		_, _ = fmt.Fprintln(w)
		return nil
	}

	cfg := output.NewFormatConfig().
		WithColors(o.Colors).
		WithColumns(lo.columns...).
		WithTemplate(lo.template)
	return m.FormatWithConfig(o.out(), records, format, cfg)
}
