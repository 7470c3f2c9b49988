package formats

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

type TableFormatter struct {
	table *tablewriter.Table
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	table := tablewriter.NewWriter(w)
	table.SetColWidth(48)
	table.SetRowLine(false)

	return &TableFormatter{
		table: table,
	}
}

func (t *TableFormatter) SetHeader(columns []string) {
	t.table.SetAutoFormatHeaders(false)
	t.table.SetHeader(columns)
}

func (t *TableFormatter) Write(row []string) error {
	t.table.Append(row)
	return nil
}

func (t *TableFormatter) Close() error {
	t.table.Render()
	return nil
}
