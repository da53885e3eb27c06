package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/vvka-141/bqkit/internal/frame"
)

// TableFormatter outputs frames as an aligned text table.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format writes f as a table
func (t *TableFormatter) Format(f *frame.Frame) error {
	table := tablewriter.NewWriter(t.writer)
	// header formatting is applied by SetHeader, so configure it first
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(f.Fields().Names())

	for i := 0; i < f.Len(); i++ {
		rec := f.Record(i)
		line := make([]string, rec.Len())
		for j := range line {
			line[j] = formatValue(rec.At(j))
		}
		table.Append(line)
	}

	table.Render()
	return nil
}
