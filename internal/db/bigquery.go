package db

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"github.com/vvka-141/bqkit/pkg/bqkit"
	"google.golang.org/api/iterator"
)

// BigQueryWarehouse implements bqkit.Warehouse on top of a BigQuery client.
// Calls are passed straight through: no retries, no error translation
// beyond %w wrapping.
type BigQueryWarehouse struct {
	client *bigquery.Client
	logger bqkit.Logger
}

// NewBigQueryWarehouse wraps an existing client. Closing the warehouse
// closes the client.
func NewBigQueryWarehouse(client *bigquery.Client, logger bqkit.Logger) *BigQueryWarehouse {
	if client == nil {
		panic("client cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &BigQueryWarehouse{client: client, logger: logger}
}

// Query submits sql as a query job and returns an iterator over its rows.
func (w *BigQueryWarehouse) Query(ctx context.Context, sql string) (bqkit.RowIterator, error) {
	q := w.client.Query(sql)
	q.JobID = bqkit.QueryJobPrefix + uuid.NewString()

	w.logger.Verbose("Submitting query job %s", q.JobID)
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bqkit.ErrQueryFailed, err)
	}
	return &rowIterator{it: it}, nil
}

// Load submits payload as a load job into dest.
func (w *BigQueryWarehouse) Load(ctx context.Context, dest bqkit.TableRef, payload io.Reader, cfg bqkit.LoadJobConfig) (bqkit.LoadJob, error) {
	src := bigquery.NewReaderSource(payload)
	src.SourceFormat = DataFormat(cfg.SourceFormat)
	if cfg.SourceFormat == bqkit.SourceCSV {
		src.SkipLeadingRows = 1
	}
	if len(cfg.Schema) > 0 {
		src.Schema = ToSchema(cfg.Schema)
	}

	loader := w.table(dest).LoaderFrom(src)
	loader.WriteDisposition = TableWriteDisposition(cfg.WriteDisposition)
	loader.CreateDisposition = bigquery.CreateIfNeeded
	loader.JobID = bqkit.LoadJobPrefix + uuid.NewString()

	w.logger.Verbose("Submitting load job %s into %s (%s, %s)", loader.JobID, dest, cfg.SourceFormat, cfg.WriteDisposition)
	job, err := loader.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bqkit.ErrLoadFailed, err)
	}
	return &loadJob{job: job}, nil
}

// Table fetches the metadata of ref.
func (w *BigQueryWarehouse) Table(ctx context.Context, ref bqkit.TableRef) (*bqkit.TableInfo, error) {
	md, err := w.table(ref).Metadata(ctx)
	if err != nil {
		return nil, err
	}
	return &bqkit.TableInfo{
		Ref:     ref,
		NumRows: md.NumRows,
		Schema:  FromSchema(md.Schema),
	}, nil
}

// Close releases the underlying client.
func (w *BigQueryWarehouse) Close() error {
	return w.client.Close()
}

func (w *BigQueryWarehouse) table(ref bqkit.TableRef) *bigquery.Table {
	if ref.ProjectID == "" {
		return w.client.Dataset(ref.DatasetID).Table(ref.TableID)
	}
	return w.client.DatasetInProject(ref.ProjectID, ref.DatasetID).Table(ref.TableID)
}

type rowIterator struct {
	it     *bigquery.RowIterator
	fields *bqkit.Fields
}

func (r *rowIterator) Next() (bqkit.Row, error) {
	var values []bigquery.Value
	if err := r.it.Next(&values); err != nil {
		if errors.Is(err, iterator.Done) {
			return bqkit.Row{}, iterator.Done
		}
		return bqkit.Row{}, fmt.Errorf("%w: %w", bqkit.ErrQueryFailed, err)
	}

	// the schema is only known once the first page has been fetched
	if r.fields == nil {
		names := make([]string, len(r.it.Schema))
		for i, f := range r.it.Schema {
			names[i] = f.Name
		}
		r.fields = bqkit.NewFields(names...)
	}

	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return bqkit.NewRow(r.fields, out), nil
}

func (r *rowIterator) TotalRows() uint64 {
	return r.it.TotalRows
}

type loadJob struct {
	job *bigquery.Job
}

func (j *loadJob) ID() string {
	return j.job.ID()
}

func (j *loadJob) Wait(ctx context.Context) error {
	status, err := j.job.Wait(ctx)
	if err != nil {
		return err
	}
	return status.Err()
}
