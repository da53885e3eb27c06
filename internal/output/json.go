package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"time"

	"cloud.google.com/go/civil"
	"github.com/vvka-141/bqkit/internal/frame"
)

// JSONFormatter outputs frames as JSON Lines, keys in record order
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per record
func (j *JSONFormatter) Format(f *frame.Frame) error {
	names := f.Fields().Names()
	for i := 0; i < f.Len(); i++ {
		rec := f.Record(i)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for k, name := range names {
			if k > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(name)
			if err != nil {
				return err
			}
			val, err := json.Marshal(jsonValue(rec.At(k)))
			if err != nil {
				return fmt.Errorf("failed to marshal %q of record %d: %w", name, i, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteString("}\n")

		if _, err := j.writer.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func jsonValue(v any) any {
	switch v.(type) {
	case time.Time, civil.DateTime, civil.Date, *big.Rat:
		return formatValue(v)
	}
	return v
}
