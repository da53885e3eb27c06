package bqkit

import (
	"context"
	"io"
)

// RowIterator is a lazy, single-pass sequence of result rows. Next returns
// iterator.Done (google.golang.org/api/iterator) after the last row.
type RowIterator interface {
	Next() (Row, error)

	// TotalRows reports the size of the result when the service has
	// announced it. It is only meaningful after the first call to Next.
	TotalRows() uint64
}

// LoadJob is a submitted asynchronous load.
type LoadJob interface {
	ID() string

	// Wait blocks until the job reaches a terminal state. A failed job
	// returns the service error unmodified.
	Wait(ctx context.Context) error
}

// Warehouse is the subset of an analytical warehouse client used by bqkit.
// Every operation takes it explicitly; nothing reads a process-wide client.
type Warehouse interface {
	Query(ctx context.Context, sql string) (RowIterator, error)
	Load(ctx context.Context, dest TableRef, payload io.Reader, cfg LoadJobConfig) (LoadJob, error)
	Table(ctx context.Context, ref TableRef) (*TableInfo, error)
	Close() error
}
