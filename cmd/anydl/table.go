package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableColumn describes one column of CLI output. Cells wider than maxWidth
// are cut with an ellipsis; 0 keeps them whole, which links and paths need
// so they stay copyable.
type tableColumn struct {
	header   string
	align    text.Align
	maxWidth int
}

func col(header string) tableColumn {
	return tableColumn{header: header, align: text.AlignLeft}
}

func (c tableColumn) right() tableColumn {
	c.align = text.AlignRight
	return c
}

func (c tableColumn) clip(width int) tableColumn {
	c.maxWidth = width
	return c
}

func snipCell(cell string, width int) string {
	return text.Snip(cell, width, "…")
}

// renderTable lays rows out under columns. Short rows are padded; a non-empty
// footer is rendered below the rows.
func renderTable(columns []tableColumn, rows [][]string, footer ...string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault

	tw.AppendHeader(padRow(columns, nil, func(i int) string { return columns[i].header }))
	for _, row := range rows {
		tw.AppendRow(padRow(columns, row, nil))
	}
	if len(footer) > 0 {
		tw.AppendFooter(padRow(columns, footer, nil))
	}

	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       c.align,
			AlignHeader: text.AlignLeft,
			AlignFooter: c.align,
		}
		if c.maxWidth > 0 {
			configs[i].WidthMax = c.maxWidth
			configs[i].WidthMaxEnforcer = snipCell
		}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func padRow(columns []tableColumn, cells []string, fill func(int) string) table.Row {
	row := make(table.Row, len(columns))
	for i := range columns {
		switch {
		case fill != nil:
			row[i] = fill(i)
		case i < len(cells):
			row[i] = cells[i]
		default:
			row[i] = ""
		}
	}
	return row
}
