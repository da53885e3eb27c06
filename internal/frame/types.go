package frame

import (
	"math/big"
	"time"

	"cloud.google.com/go/civil"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

// TypeOf maps a Go value to the warehouse type it loads as. It returns ""
// for nil and for values without a natural warehouse type.
func TypeOf(v any) bqkit.FieldType {
	switch v.(type) {
	case string:
		return bqkit.FieldString
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return bqkit.FieldInteger
	case float32, float64:
		return bqkit.FieldFloat
	case bool:
		return bqkit.FieldBoolean
	case time.Time:
		return bqkit.FieldTimestamp
	case civil.DateTime:
		return bqkit.FieldDateTime
	case civil.Date:
		return bqkit.FieldDate
	case *big.Rat:
		return bqkit.FieldNumeric
	}
	return ""
}

// FieldType infers the type of a column from its non-nil values. Columns
// that are all nil, or that mix types, are typed as STRING.
func (f *Frame) FieldType(name string) (bqkit.FieldType, bool) {
	values, ok := f.Column(name)
	if !ok {
		return "", false
	}
	var found bqkit.FieldType
	for _, v := range values {
		if v == nil {
			continue
		}
		t := TypeOf(v)
		if t == "" {
			return bqkit.FieldString, true
		}
		if found != "" && found != t {
			return bqkit.FieldString, true
		}
		found = t
	}
	if found == "" {
		return bqkit.FieldString, true
	}
	return found, true
}

// Schema returns one field per Record column (index first when named) with
// inferred types.
func (f *Frame) Schema() []bqkit.SchemaField {
	names := f.fields.Names()
	out := make([]bqkit.SchemaField, 0, len(names))
	for _, name := range names {
		t, _ := f.FieldType(name)
		out = append(out, bqkit.SchemaField{Name: name, Type: t})
	}
	return out
}
