package encode

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"time"

	"cloud.google.com/go/civil"
	"github.com/vvka-141/bqkit/internal/frame"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

// NDJSONEncoder writes one JSON object per record.
type NDJSONEncoder struct{}

// NewNDJSONEncoder creates an NDJSONEncoder.
func NewNDJSONEncoder() *NDJSONEncoder {
	return &NDJSONEncoder{}
}

// Format returns bqkit.SourceJSON.
func (e *NDJSONEncoder) Format() bqkit.SourceFormat {
	return bqkit.SourceJSON
}

// Encode writes f to w as newline-delimited JSON. Keys follow record order.
func (e *NDJSONEncoder) Encode(w io.Writer, f *frame.Frame) error {
	bw := bufio.NewWriter(w)
	names := f.Fields().Names()

	for row := 0; row < f.Len(); row++ {
		rec := f.Record(row)
		if err := bw.WriteByte('{'); err != nil {
			return err
		}
		for i, name := range names {
			if i > 0 {
				bw.WriteByte(',')
			}
			key, _ := json.Marshal(name)
			bw.Write(key)
			bw.WriteByte(':')
			val, err := json.Marshal(jsonValue(rec.At(i)))
			if err != nil {
				return fmt.Errorf("record %d column %q: %w", row, name, err)
			}
			bw.Write(val)
		}
		if _, err := bw.WriteString("}\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// jsonValue converts temporal values to the text forms the warehouse
// parses; everything else marshals natively.
func jsonValue(v any) any {
	switch v.(type) {
	case time.Time, civil.DateTime, civil.Date, *big.Rat:
		return formatText(v)
	}
	return v
}
