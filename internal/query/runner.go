// Package query runs SQL against a warehouse and prints one diagnostic
// line per returned row.
package query

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vvka-141/bqkit/internal/frame"
	"github.com/vvka-141/bqkit/pkg/bqkit"
	"google.golang.org/api/iterator"
)

// DefaultQuery returns the 20 most common names in Texas from the public
// usa_names dataset, ordered by total_people descending.
const DefaultQuery = `
    SELECT name, SUM(number) as total_people
    FROM ` + "`bigquery-public-data.usa_names.usa_1910_2013`" + `
    WHERE state = 'TX'
    GROUP BY name, state
    ORDER BY total_people DESC
    LIMIT 20
`

// Header is printed before the first row.
const Header = "The query data:"

// LineFormatter renders the diagnostic line for one row.
type LineFormatter func(row bqkit.Row) string

// PeopleLine prints the first column by position and total_people by
// name, which for DefaultQuery are the name and its count.
func PeopleLine(row bqkit.Row) string {
	var name any
	if row.Len() > 0 {
		name = row.At(0)
	}
	count, _ := row.Get("total_people")
	return fmt.Sprintf("name=%v, count=%v", name, count)
}

// GenericLine prints every column as name=value.
func GenericLine(row bqkit.Row) string {
	names := row.Names()
	parts := make([]string, row.Len())
	for i := range parts {
		name := fmt.Sprintf("_%d", i)
		if i < len(names) {
			name = names[i]
		}
		parts[i] = fmt.Sprintf("%s=%v", name, row.At(i))
	}
	return strings.Join(parts, ", ")
}

// Runner issues queries and prints their rows.
type Runner struct {
	warehouse bqkit.Warehouse
	logger    bqkit.Logger
	out       io.Writer
	format    LineFormatter
}

// NewRunner creates a Runner that prints to out using PeopleLine.
// Panics on nil dependencies.
func NewRunner(warehouse bqkit.Warehouse, logger bqkit.Logger, out io.Writer) *Runner {
	if warehouse == nil {
		panic("warehouse cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if out == nil {
		panic("out cannot be nil")
	}
	return &Runner{warehouse: warehouse, logger: logger, out: out, format: PeopleLine}
}

// WithLineFormatter returns a copy of the runner using format.
func (r *Runner) WithLineFormatter(format LineFormatter) *Runner {
	clone := *r
	clone.format = format
	return &clone
}

// Run submits sql, prints every row once and passes it to visit (which
// may be nil). It returns the number of rows read. Warehouse errors are
// returned as-is, wrapped.
func (r *Runner) Run(ctx context.Context, sql string, visit func(bqkit.Row) error) (int, error) {
	if strings.TrimSpace(sql) == "" {
		return 0, fmt.Errorf("query is empty: %w", bqkit.ErrInvalidConfig)
	}

	r.logger.Verbose("Running query:\n%s", strings.TrimSpace(sql))
	it, err := r.warehouse.Query(ctx, sql)
	if err != nil {
		return 0, err
	}

	fmt.Fprintln(r.out, Header)
	n := 0
	for {
		row, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return n, err
		}
		n++
		fmt.Fprintln(r.out, r.format(row))
		if visit != nil {
			if err := visit(row); err != nil {
				return n, err
			}
		}
	}

	r.logger.Verbose("Read %d row(s)", n)
	return n, nil
}

// RunToFrame runs sql like Run and materializes every row into a Frame in
// the same single pass.
func (r *Runner) RunToFrame(ctx context.Context, sql string) (*frame.Frame, error) {
	b := frame.NewBuilder()
	if _, err := r.Run(ctx, sql, b.Append); err != nil {
		return nil, err
	}
	return b.Build()
}
