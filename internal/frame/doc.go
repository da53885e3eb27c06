// Package frame provides an immutable, column-ordered tabular dataset with
// an optional named index.
//
// A Frame is the in-memory form shared by the query runner (which
// materializes results into one) and the table loader (which encodes one
// into a load payload). Values are plain Go scalars: string, int64,
// float64, bool, time.Time for instants, civil.DateTime and civil.Date for
// naive calendar values, and nil for NULL.
package frame
