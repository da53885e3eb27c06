package frame

import (
	"errors"
	"fmt"

	"github.com/vvka-141/bqkit/pkg/bqkit"
	"google.golang.org/api/iterator"
)

// Builder accumulates rows into a Frame. The first appended row fixes the
// column order; later rows must carry the same column names.
type Builder struct {
	columns []string
	records [][]any
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Append adds row to the frame under construction.
func (b *Builder) Append(row bqkit.Row) error {
	names := row.Names()
	if b.columns == nil {
		b.columns = names
	} else if !sameNames(b.columns, names) {
		return fmt.Errorf("row %d has columns %v, want %v: %w", len(b.records), names, b.columns, bqkit.ErrInvalidFrame)
	}
	b.records = append(b.records, row.Values())
	return nil
}

// Len returns the number of rows appended so far.
func (b *Builder) Len() int {
	return len(b.records)
}

// Build returns the Frame. The index is positional (unnamed).
func (b *Builder) Build() (*Frame, error) {
	return New(b.columns, b.records)
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Collect drains it into a Frame. The iterator is consumed; it cannot be
// read again.
func Collect(it bqkit.RowIterator) (*Frame, error) {
	b := NewBuilder()
	for {
		row, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := b.Append(row); err != nil {
			return nil, err
		}
	}
	return b.Build()
}
