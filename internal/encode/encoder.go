package encode

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"cloud.google.com/go/civil"
	"github.com/vvka-141/bqkit/internal/frame"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

// Encoder writes a frame in one source format. Record columns are written
// in frame.Fields order: the named index first, then the declared columns.
type Encoder interface {
	Encode(w io.Writer, f *frame.Frame) error
	Format() bqkit.SourceFormat
}

// ForFormat returns the encoder for format.
func ForFormat(format bqkit.SourceFormat) (Encoder, error) {
	switch format {
	case bqkit.SourceParquet:
		return NewParquetEncoder(), nil
	case bqkit.SourceCSV:
		return NewCSVEncoder(), nil
	case bqkit.SourceJSON:
		return NewNDJSONEncoder(), nil
	}
	return nil, fmt.Errorf("no encoder for source format %v: %w", format, bqkit.ErrInvalidConfig)
}

// civilLayout is the textual form the warehouse accepts for DATETIME.
const civilLayout = "2006-01-02 15:04:05.999999"

// formatText renders v the way text formats (CSV, JSON strings) load it.
func formatText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case civil.DateTime:
		return x.In(time.UTC).Format(civilLayout)
	case civil.Date:
		return x.String()
	case *big.Rat:
		return x.FloatString(9)
	default:
		return fmt.Sprint(x)
	}
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}
