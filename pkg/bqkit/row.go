package bqkit

// Fields is the ordered set of column names shared by all rows of one
// result. It is immutable after construction.
type Fields struct {
	names     []string
	positions map[string]int
}

// NewFields creates a Fields from column names in order.
// When a name repeats, lookups by name resolve to its first position.
func NewFields(names ...string) *Fields {
	f := &Fields{
		names:     append([]string(nil), names...),
		positions: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if _, exists := f.positions[name]; !exists {
			f.positions[name] = i
		}
	}
	return f
}

// Names returns a copy of the column names in order.
func (f *Fields) Names() []string {
	return append([]string(nil), f.names...)
}

// Len returns the number of columns.
func (f *Fields) Len() int {
	return len(f.names)
}

// Position returns the zero-based position of name.
func (f *Fields) Position(name string) (int, bool) {
	i, ok := f.positions[name]
	return i, ok
}

// Row is a single read-only result record. Values are addressable by
// column name or by position; both accessors read the same slice.
type Row struct {
	fields *Fields
	values []any
}

// NewRow binds values to fields. values is retained, not copied.
func NewRow(fields *Fields, values []any) Row {
	return Row{fields: fields, values: values}
}

// At returns the value at position i. It panics when i is out of range,
// the same way indexing a slice does.
func (r Row) At(i int) any {
	return r.values[i]
}

// Get returns the value of the named column.
func (r Row) Get(name string) (any, bool) {
	if r.fields == nil {
		return nil, false
	}
	i, ok := r.fields.Position(name)
	if !ok || i >= len(r.values) {
		return nil, false
	}
	return r.values[i], true
}

// Len returns the number of values in the row.
func (r Row) Len() int {
	return len(r.values)
}

// Fields returns the shared column set of the row.
func (r Row) Fields() *Fields {
	return r.fields
}

// Names returns the column names of the row.
func (r Row) Names() []string {
	if r.fields == nil {
		return nil
	}
	return r.fields.Names()
}

// Values returns a copy of the row values.
func (r Row) Values() []any {
	return append([]any(nil), r.values...)
}

// Map returns the row as a name to value map.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for i, name := range r.Names() {
		if i < len(r.values) {
			if _, exists := m[name]; !exists {
				m[name] = r.values[i]
			}
		}
	}
	return m
}
