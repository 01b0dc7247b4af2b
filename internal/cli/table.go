package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable renders rows under the given headers with rounded borders.
// Columns named in rightAlign are right-aligned, which suits the numeric
// episode, frame and count columns.
func renderTable(headers []string, rows [][]string, rightAlign ...string) string {
	if len(headers) == 0 {
		return ""
	}

	numeric := make(map[string]bool, len(rightAlign))
	for _, name := range rightAlign {
		numeric[name] = true
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	configs := make([]table.ColumnConfig, len(headers))
	for i, name := range headers {
		header[i] = name
		align := text.AlignLeft
		if numeric[name] {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}
