package frame

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

// Frame is a tabular dataset with an explicit column order and an optional
// named index of unique identifiers, one per record. A Frame is never
// mutated after construction; accessors return copies.
type Frame struct {
	columns   []string
	positions map[string]int
	indexName string
	index     []string
	records   [][]any
	fields    *bqkit.Fields
}

// Option configures New.
type Option func(*Frame)

// WithIndex attaches a named index. ids must be unique and have one entry
// per record.
func WithIndex(name string, ids []string) Option {
	return func(f *Frame) {
		f.indexName = name
		f.index = append([]string(nil), ids...)
	}
}

// New builds a Frame from records laid out in columns order. Every
// validation problem is reported, wrapped in bqkit.ErrInvalidFrame.
func New(columns []string, records [][]any, opts ...Option) (*Frame, error) {
	f := &Frame{
		columns:   append([]string(nil), columns...),
		positions: make(map[string]int, len(columns)),
		records:   make([][]any, len(records)),
	}
	for i, rec := range records {
		f.records[i] = append([]any(nil), rec...)
	}
	for _, opt := range opts {
		opt(f)
	}

	if err := f.validate(); err != nil {
		return nil, err
	}

	for i, col := range f.columns {
		f.positions[col] = i
	}
	f.fields = bqkit.NewFields(f.recordNames()...)
	return f, nil
}

func (f *Frame) validate() error {
	var result *multierror.Error

	seen := make(map[string]bool, len(f.columns))
	for i, col := range f.columns {
		if col == "" {
			result = multierror.Append(result, fmt.Errorf("column %d has no name", i))
			continue
		}
		if seen[col] {
			result = multierror.Append(result, fmt.Errorf("column %q appears more than once", col))
		}
		seen[col] = true
	}

	for i, rec := range f.records {
		if len(rec) != len(f.columns) {
			result = multierror.Append(result, fmt.Errorf("record %d has %d values, want %d", i, len(rec), len(f.columns)))
		}
	}

	if f.index != nil || f.indexName != "" {
		if f.indexName == "" {
			result = multierror.Append(result, fmt.Errorf("index has no name"))
		}
		if seen[f.indexName] {
			result = multierror.Append(result, fmt.Errorf("index name %q collides with a column", f.indexName))
		}
		if len(f.index) != len(f.records) {
			result = multierror.Append(result, fmt.Errorf("index has %d ids, want %d", len(f.index), len(f.records)))
		}
		ids := make(map[string]bool, len(f.index))
		for _, id := range f.index {
			if ids[id] {
				result = multierror.Append(result, fmt.Errorf("index id %q is not unique", id))
			}
			ids[id] = true
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", bqkit.ErrInvalidFrame, err)
	}
	return nil
}

func (f *Frame) recordNames() []string {
	if f.indexName == "" {
		return f.columns
	}
	return append([]string{f.indexName}, f.columns...)
}

// Len returns the number of records.
func (f *Frame) Len() int {
	return len(f.records)
}

// Columns returns the declared column order, excluding the index.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// IndexName returns the index name, or "" when the frame has a plain
// positional index.
func (f *Frame) IndexName() string {
	return f.indexName
}

// Index returns the index ids, or nil when the frame has no named index.
func (f *Frame) Index() []string {
	if f.indexName == "" {
		return nil
	}
	return append([]string(nil), f.index...)
}

// HasColumn reports whether name is a column or the index.
func (f *Frame) HasColumn(name string) bool {
	if name != "" && name == f.indexName {
		return true
	}
	_, ok := f.positions[name]
	return ok
}

// Value returns the value of column col in record row.
func (f *Frame) Value(row int, col string) (any, bool) {
	if row < 0 || row >= len(f.records) {
		return nil, false
	}
	if col != "" && col == f.indexName {
		return f.index[row], true
	}
	i, ok := f.positions[col]
	if !ok {
		return nil, false
	}
	return f.records[row][i], true
}

// Column returns a copy of every value in the named column (or index).
func (f *Frame) Column(name string) ([]any, bool) {
	if !f.HasColumn(name) {
		return nil, false
	}
	out := make([]any, len(f.records))
	for i := range f.records {
		out[i], _ = f.Value(i, name)
	}
	return out, true
}

// Fields returns the column set of Record rows: the index first when it is
// named, then the declared columns.
func (f *Frame) Fields() *bqkit.Fields {
	return f.fields
}

// Record returns record i as a Row. The named index, if any, is the first
// field. It panics when i is out of range.
func (f *Frame) Record(i int) bqkit.Row {
	rec := f.records[i]
	values := make([]any, 0, len(rec)+1)
	if f.indexName != "" {
		values = append(values, f.index[i])
	}
	values = append(values, rec...)
	return bqkit.NewRow(f.fields, values)
}
