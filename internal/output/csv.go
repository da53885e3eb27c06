package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/vvka-141/bqkit/internal/frame"
)

// CSVFormatter outputs frames as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes f as CSV with a header row in record order
func (c *CSVFormatter) Format(f *frame.Frame) error {
	csvWriter := csv.NewWriter(c.writer)

	if err := csvWriter.Write(f.Fields().Names()); err != nil {
		return err
	}

	for i := 0; i < f.Len(); i++ {
		rec := f.Record(i)
		line := make([]string, rec.Len())
		for j := range line {
			line[j] = formatValue(rec.At(j))
		}
		if err := csvWriter.Write(line); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}
