package db

import (
	"cloud.google.com/go/bigquery"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

// ToSchema converts declared fields to a BigQuery schema.
func ToSchema(fields []bqkit.SchemaField) bigquery.Schema {
	schema := make(bigquery.Schema, 0, len(fields))
	for _, f := range fields {
		schema = append(schema, &bigquery.FieldSchema{
			Name: f.Name,
			Type: bigquery.FieldType(f.Type),
		})
	}
	return schema
}

// FromSchema converts a BigQuery schema to declared fields. Nested fields
// are reported by their top-level name only.
func FromSchema(schema bigquery.Schema) []bqkit.SchemaField {
	fields := make([]bqkit.SchemaField, 0, len(schema))
	for _, f := range schema {
		fields = append(fields, bqkit.SchemaField{Name: f.Name, Type: bqkit.FieldType(f.Type)})
	}
	return fields
}

// TableWriteDisposition maps a disposition to the client enum.
func TableWriteDisposition(d bqkit.WriteDisposition) bigquery.TableWriteDisposition {
	switch d {
	case bqkit.WriteAppend:
		return bigquery.WriteAppend
	case bqkit.WriteEmpty:
		return bigquery.WriteEmpty
	default:
		return bigquery.WriteTruncate
	}
}

// DataFormat maps a source format to the client enum.
func DataFormat(f bqkit.SourceFormat) bigquery.DataFormat {
	switch f {
	case bqkit.SourceCSV:
		return bigquery.CSV
	case bqkit.SourceJSON:
		return bigquery.JSON
	default:
		return bigquery.Parquet
	}
}
