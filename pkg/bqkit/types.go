package bqkit

import (
	"errors"
	"fmt"
	"strings"
)

// FieldType is a warehouse column type name.
type FieldType string

const (
	FieldString    FieldType = "STRING"
	FieldInteger   FieldType = "INTEGER"
	FieldFloat     FieldType = "FLOAT"
	FieldBoolean   FieldType = "BOOLEAN"
	FieldTimestamp FieldType = "TIMESTAMP"
	FieldDateTime  FieldType = "DATETIME"
	FieldDate      FieldType = "DATE"
	FieldNumeric   FieldType = "NUMERIC"
)

// SchemaField declares the type of one column.
type SchemaField struct {
	Name string
	Type FieldType
}

// WriteDisposition controls how a load job treats a destination table that
// already contains data.
type WriteDisposition int

const (
	// WriteTruncate replaces the table contents and schema.
	WriteTruncate WriteDisposition = iota
	// WriteAppend adds rows to the existing contents.
	WriteAppend
	// WriteEmpty fails the job when the table already holds rows.
	WriteEmpty
)

// String returns the service name of the disposition.
func (d WriteDisposition) String() string {
	switch d {
	case WriteTruncate:
		return "WRITE_TRUNCATE"
	case WriteAppend:
		return "WRITE_APPEND"
	case WriteEmpty:
		return "WRITE_EMPTY"
	default:
		return fmt.Sprintf("WriteDisposition(%d)", int(d))
	}
}

// ParseWriteDisposition accepts the service names (WRITE_TRUNCATE, ...)
// and the short forms truncate, append and empty, case-insensitively.
func ParseWriteDisposition(s string) (WriteDisposition, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WRITE_TRUNCATE", "TRUNCATE":
		return WriteTruncate, nil
	case "WRITE_APPEND", "APPEND":
		return WriteAppend, nil
	case "WRITE_EMPTY", "EMPTY":
		return WriteEmpty, nil
	}
	return 0, fmt.Errorf("unknown write disposition %q (expected truncate, append or empty): %w", s, ErrInvalidConfig)
}

// SourceFormat is the encoding of a load payload.
type SourceFormat int

const (
	SourceParquet SourceFormat = iota
	SourceCSV
	SourceJSON
)

func (f SourceFormat) String() string {
	switch f {
	case SourceParquet:
		return "PARQUET"
	case SourceCSV:
		return "CSV"
	case SourceJSON:
		return "NEWLINE_DELIMITED_JSON"
	default:
		return fmt.Sprintf("SourceFormat(%d)", int(f))
	}
}

// ParseSourceFormat accepts parquet, csv and json (or ndjson).
func ParseSourceFormat(s string) (SourceFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "parquet":
		return SourceParquet, nil
	case "csv":
		return SourceCSV, nil
	case "json", "ndjson", "newline_delimited_json":
		return SourceJSON, nil
	}
	return 0, fmt.Errorf("unknown source format %q (expected parquet, csv or json): %w", s, ErrInvalidConfig)
}

// LoadJobConfig pairs a partial column schema with a write disposition.
// Columns left out of Schema are typed from the loaded data.
type LoadJobConfig struct {
	Schema           []SchemaField
	WriteDisposition WriteDisposition
	SourceFormat     SourceFormat
}

// Validate checks the configuration and returns every problem found.
func (c LoadJobConfig) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(c.Schema))
	for i, field := range c.Schema {
		if field.Name == "" {
			errs = append(errs, fmt.Errorf("schema field %d has no name: %w", i, ErrInvalidConfig))
			continue
		}
		if seen[field.Name] {
			errs = append(errs, fmt.Errorf("schema field %q declared twice: %w", field.Name, ErrInvalidConfig))
		}
		seen[field.Name] = true
		if field.Type == "" {
			errs = append(errs, fmt.Errorf("schema field %q has no type: %w", field.Name, ErrInvalidConfig))
		}
	}

	switch c.WriteDisposition {
	case WriteTruncate, WriteAppend, WriteEmpty:
	default:
		errs = append(errs, fmt.Errorf("unknown write disposition %v: %w", c.WriteDisposition, ErrInvalidConfig))
	}

	switch c.SourceFormat {
	case SourceParquet, SourceCSV, SourceJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown source format %v: %w", c.SourceFormat, ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// TableRef identifies a warehouse table.
type TableRef struct {
	ProjectID string
	DatasetID string
	TableID   string
}

// String returns the dotted project.dataset.table form.
func (r TableRef) String() string {
	if r.ProjectID == "" {
		return r.DatasetID + "." + r.TableID
	}
	return r.ProjectID + "." + r.DatasetID + "." + r.TableID
}

// ParseTableRef parses "project.dataset.table" or "dataset.table". The
// two-part form takes defaultProject. A "project:dataset.table" legacy id
// is accepted as well.
func ParseTableRef(id, defaultProject string) (TableRef, error) {
	id = strings.TrimSpace(strings.Trim(strings.TrimSpace(id), "`"))
	if id == "" {
		return TableRef{}, fmt.Errorf("table id is empty: %w", ErrInvalidTableRef)
	}

	if project, rest, ok := strings.Cut(id, ":"); ok {
		parts := strings.Split(rest, ".")
		if project == "" || len(parts) != 2 {
			return TableRef{}, fmt.Errorf("%q: expected project:dataset.table: %w", id, ErrInvalidTableRef)
		}
		id = project + "." + rest
	}

	parts := strings.Split(id, ".")
	var ref TableRef
	switch len(parts) {
	case 2:
		ref = TableRef{ProjectID: defaultProject, DatasetID: parts[0], TableID: parts[1]}
	case 3:
		ref = TableRef{ProjectID: parts[0], DatasetID: parts[1], TableID: parts[2]}
	default:
		return TableRef{}, fmt.Errorf("%q: expected project.dataset.table: %w", id, ErrInvalidTableRef)
	}

	for _, part := range parts {
		if part == "" {
			return TableRef{}, fmt.Errorf("%q: empty component: %w", id, ErrInvalidTableRef)
		}
	}
	if ref.ProjectID == "" {
		return TableRef{}, fmt.Errorf("%q: no project given and no default project configured: %w", id, ErrInvalidTableRef)
	}
	return ref, nil
}

// TableInfo is what the service reports about a table after a load.
type TableInfo struct {
	Ref     TableRef
	NumRows uint64
	Schema  []SchemaField
}

// NumColumns returns the number of columns in the table schema.
func (t *TableInfo) NumColumns() int {
	return len(t.Schema)
}

// JobState is the lifecycle of a load job:
// Submitted -> Running -> {Succeeded, Failed}.
type JobState int

const (
	JobSubmitted JobState = iota
	JobRunning
	JobSucceeded
	JobFailed
)

func (s JobState) String() string {
	switch s {
	case JobSubmitted:
		return "submitted"
	case JobRunning:
		return "running"
	case JobSucceeded:
		return "succeeded"
	case JobFailed:
		return "failed"
	default:
		return fmt.Sprintf("JobState(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s JobState) Terminal() bool {
	return s == JobSucceeded || s == JobFailed
}
