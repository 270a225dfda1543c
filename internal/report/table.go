package report

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one report table column. Numeric columns are right
// aligned.
type column struct {
	title   string
	numeric bool
}

// maxCellWidth wraps long merged values such as notes and addresses.
const maxCellWidth = 48

// renderTable draws rows under cols. A nil row draws a separator, which the
// merge table uses between clusters. Short rows are padded with blanks.
func renderTable(cols []column, rows [][]string, colorize bool) string {
	if len(cols) == 0 {
		return ""
	}

	style := table.StyleRounded
	if colorize {
		style.Color.Header = text.Colors{text.Bold, text.FgCyan}
	}
	tw := table.NewWriter()
	tw.SetStyle(style)

	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		header[i] = c.title
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft, WidthMax: maxCellWidth}
		if c.numeric {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		if row == nil {
			tw.AppendSeparator()
			continue
		}
		r := make(table.Row, len(cols))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
