// Package encode serializes a frame.Frame into a load job payload.
//
// Parquet is the default: it carries column types, so the service can type
// columns that the load configuration leaves undeclared. Instants
// (time.Time) are written as UTC-adjusted timestamps and naive
// civil.DateTime values as timestamps without a zone, which keeps the two
// timestamp policies of a frame apart on the wire.
//
// CSV and newline-delimited JSON are provided for destinations where the
// full schema is declared in the load configuration.
package encode
