package encode

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/vvka-141/bqkit/internal/frame"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

// CSVEncoder writes a header row followed by one line per record.
// Load configurations using it should skip one leading row.
type CSVEncoder struct{}

// NewCSVEncoder creates a CSVEncoder.
func NewCSVEncoder() *CSVEncoder {
	return &CSVEncoder{}
}

// Format returns bqkit.SourceCSV.
func (e *CSVEncoder) Format() bqkit.SourceFormat {
	return bqkit.SourceCSV
}

// Encode writes f to w as CSV.
func (e *CSVEncoder) Encode(w io.Writer, f *frame.Frame) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(f.Fields().Names()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	line := make([]string, f.Fields().Len())
	for row := 0; row < f.Len(); row++ {
		rec := f.Record(row)
		for i := range line {
			line[i] = formatText(rec.At(i))
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv record %d: %w", row, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
