// Package loader writes a frame.Frame into a warehouse table with a load
// job and reports the resulting table size.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vvka-141/bqkit/internal/encode"
	"github.com/vvka-141/bqkit/internal/frame"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

// DefaultSchema declares the string columns of the movies dataset. The
// remaining columns take the types of the frame values.
func DefaultSchema() []bqkit.SchemaField {
	return []bqkit.SchemaField{
		{Name: "title", Type: bqkit.FieldString},
		{Name: "wikidata_id", Type: bqkit.FieldString},
	}
}

// DefaultConfig is DefaultSchema with truncate-and-replace as Parquet.
func DefaultConfig() bqkit.LoadJobConfig {
	return bqkit.LoadJobConfig{
		Schema:           DefaultSchema(),
		WriteDisposition: bqkit.WriteTruncate,
		SourceFormat:     bqkit.SourceParquet,
	}
}

// Loader submits frames as load jobs.
type Loader struct {
	warehouse bqkit.Warehouse
	logger    bqkit.Logger
	out       io.Writer
}

// New creates a Loader that prints its summary line to out.
// Panics on nil dependencies.
func New(warehouse bqkit.Warehouse, logger bqkit.Logger, out io.Writer) *Loader {
	if warehouse == nil {
		panic("warehouse cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if out == nil {
		panic("out cannot be nil")
	}
	return &Loader{warehouse: warehouse, logger: logger, out: out}
}

// Load encodes f, submits it into dest, blocks until the job is terminal
// and returns the destination table as reported by the service.
func (l *Loader) Load(ctx context.Context, f *frame.Frame, dest bqkit.TableRef, cfg bqkit.LoadJobConfig) (*bqkit.TableInfo, error) {
	if f == nil {
		return nil, fmt.Errorf("frame is nil: %w", bqkit.ErrInvalidFrame)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	enc, err := encode.ForFormat(cfg.SourceFormat)
	if err != nil {
		return nil, err
	}

	var payload bytes.Buffer
	if err := enc.Encode(&payload, f); err != nil {
		return nil, fmt.Errorf("encode frame as %s: %w", cfg.SourceFormat, err)
	}
	l.logger.Verbose("Encoded %d row(s) as %s (%d bytes)", f.Len(), cfg.SourceFormat, payload.Len())

	jobCfg := cfg
	jobCfg.Schema = CompleteSchema(f, cfg.Schema)

	job, err := l.warehouse.Load(ctx, dest, &payload, jobCfg)
	if err != nil {
		l.logger.Error("Submitting load job into %s failed: %v", dest, err)
		return nil, loadFailed(fmt.Errorf("submit load job into %s: %w", dest, err))
	}
	l.logger.Info("Load job %s submitted into %s (%s, %s)", job.ID(), dest, cfg.SourceFormat, cfg.WriteDisposition)

	if err := job.Wait(ctx); err != nil {
		l.logger.Error("Load job %s %s: %v", job.ID(), bqkit.JobFailed, err)
		if cfg.WriteDisposition == bqkit.WriteEmpty && bqkit.IsConflict(err) {
			return nil, fmt.Errorf("%w: %w: job %s: %w", bqkit.ErrLoadFailed, bqkit.ErrTableNotEmpty, job.ID(), err)
		}
		return nil, fmt.Errorf("%w: job %s: %w", bqkit.ErrLoadFailed, job.ID(), err)
	}
	l.logger.Verbose("Load job %s %s", job.ID(), bqkit.JobSucceeded)

	info, err := l.warehouse.Table(ctx, dest)
	if err != nil {
		l.logger.Error("Fetching table %s failed: %v", dest, err)
		return nil, loadFailed(fmt.Errorf("fetch table %s: %w", dest, err))
	}

	fmt.Fprintf(l.out, "Loaded %d rows and %d columns to %s\n", info.NumRows, info.NumColumns(), dest)
	return info, nil
}

// loadFailed marks err with ErrLoadFailed unless the warehouse already did.
func loadFailed(err error) error {
	if errors.Is(err, bqkit.ErrLoadFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", bqkit.ErrLoadFailed, err)
}

// CompleteSchema returns one field per frame column in record order. A
// declared field keeps its type; undeclared columns take the type inferred
// from their values. Declared names absent from the frame are kept at the
// end so the service can reject them.
func CompleteSchema(f *frame.Frame, declared []bqkit.SchemaField) []bqkit.SchemaField {
	byName := make(map[string]bqkit.FieldType, len(declared))
	for _, field := range declared {
		byName[field.Name] = field.Type
	}

	inferred := f.Schema()
	out := make([]bqkit.SchemaField, 0, len(inferred))
	used := make(map[string]bool, len(declared))
	for _, field := range inferred {
		if t, ok := byName[field.Name]; ok {
			field.Type = t
			used[field.Name] = true
		}
		out = append(out, field)
	}
	for _, field := range declared {
		if !used[field.Name] {
			out = append(out, field)
		}
	}
	return out
}
