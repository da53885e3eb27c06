package encode

import (
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/civil"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/vvka-141/bqkit/internal/frame"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

// UTCZone is the arrow timezone attached to instant columns.
const UTCZone = "UTC"

// ParquetEncoder writes a frame as a single-row-group Parquet file built
// from an arrow record.
type ParquetEncoder struct {
	mem memory.Allocator
}

// NewParquetEncoder creates a ParquetEncoder using the Go allocator.
func NewParquetEncoder() *ParquetEncoder {
	return &ParquetEncoder{mem: memory.NewGoAllocator()}
}

// Format returns bqkit.SourceParquet.
func (e *ParquetEncoder) Format() bqkit.SourceFormat {
	return bqkit.SourceParquet
}

// ArrowSchema returns the arrow schema a frame is encoded with.
func ArrowSchema(f *frame.Frame) *arrow.Schema {
	fields := make([]arrow.Field, 0, f.Fields().Len())
	for _, col := range f.Schema() {
		fields = append(fields, arrow.Field{Name: col.Name, Type: arrowType(col.Type), Nullable: true})
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(t bqkit.FieldType) arrow.DataType {
	switch t {
	case bqkit.FieldInteger:
		return arrow.PrimitiveTypes.Int64
	case bqkit.FieldFloat:
		return arrow.PrimitiveTypes.Float64
	case bqkit.FieldBoolean:
		return arrow.FixedWidthTypes.Boolean
	case bqkit.FieldTimestamp:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: UTCZone}
	case bqkit.FieldDateTime:
		return &arrow.TimestampType{Unit: arrow.Microsecond}
	case bqkit.FieldDate:
		return arrow.FixedWidthTypes.Date32
	default:
		return arrow.BinaryTypes.String
	}
}

// Record converts f into an arrow record. The caller must Release it.
func (e *ParquetEncoder) Record(f *frame.Frame) (arrow.Record, error) {
	schema := ArrowSchema(f)
	b := array.NewRecordBuilder(e.mem, schema)
	defer b.Release()

	names := f.Fields().Names()
	for row := 0; row < f.Len(); row++ {
		rec := f.Record(row)
		for col := range names {
			if err := appendValue(b.Field(col), rec.At(col)); err != nil {
				return nil, fmt.Errorf("record %d column %q: %w", row, names[col], err)
			}
		}
	}
	return b.NewRecord(), nil
}

// Encode writes f to w as Parquet.
func (e *ParquetEncoder) Encode(w io.Writer, f *frame.Frame) error {
	rec, err := e.Record(f)
	if err != nil {
		return err
	}
	defer rec.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithAllocator(e.mem),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	fw, err := pqarrow.NewFileWriter(rec.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("write parquet record: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

func appendValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}

	switch fb := b.(type) {
	case *array.StringBuilder:
		fb.Append(formatText(v))
	case *array.Int64Builder:
		i, ok := toInt64(v)
		if !ok {
			return fmt.Errorf("cannot encode %T as INTEGER", v)
		}
		fb.Append(i)
	case *array.Float64Builder:
		x, ok := toFloat64(v)
		if !ok {
			return fmt.Errorf("cannot encode %T as FLOAT", v)
		}
		fb.Append(x)
	case *array.BooleanBuilder:
		x, ok := v.(bool)
		if !ok {
			return fmt.Errorf("cannot encode %T as BOOLEAN", v)
		}
		fb.Append(x)
	case *array.TimestampBuilder:
		switch x := v.(type) {
		case time.Time:
			fb.Append(arrow.Timestamp(x.UnixMicro()))
		case civil.DateTime:
			// wall clock stored as-is; the column has no zone
			fb.Append(arrow.Timestamp(x.In(time.UTC).UnixMicro()))
		default:
			return fmt.Errorf("cannot encode %T as timestamp", v)
		}
	case *array.Date32Builder:
		x, ok := v.(civil.Date)
		if !ok {
			return fmt.Errorf("cannot encode %T as DATE", v)
		}
		fb.Append(arrow.Date32FromTime(x.In(time.UTC)))
	default:
		return fmt.Errorf("unsupported arrow builder %T", b)
	}
	return nil
}
