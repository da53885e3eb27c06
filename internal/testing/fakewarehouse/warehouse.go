// Package fakewarehouse is an in-memory bqkit.Warehouse for tests.
//
// It keeps per-table row counts and schemas and applies write dispositions
// the way the real service does: WRITE_TRUNCATE replaces, WRITE_APPEND
// adds, WRITE_EMPTY fails with a "duplicate" job error when the table
// already holds rows. Parquet payloads are decoded with arrow and NDJSON
// payloads with gjson, so tests see the rows that were actually encoded.
package fakewarehouse

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"cloud.google.com/go/bigquery"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/vvka-141/bqkit/pkg/bqkit"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

// ErrClosed is returned by every call after Close.
var ErrClosed = errors.New("fake warehouse is closed")

// Table is the stored state of one table.
type Table struct {
	NumRows uint64
	Schema  []bqkit.SchemaField
}

// LoadCall records one submitted load.
type LoadCall struct {
	Dest    bqkit.TableRef
	Config  bqkit.LoadJobConfig
	Payload []byte
	Job     *Job
}

type queryResult struct {
	columns []string
	rows    [][]any
}

// Warehouse is the fake. The zero value is not usable; call New.
type Warehouse struct {
	mu      sync.Mutex
	tables  map[string]*Table
	results map[string]queryResult
	loads   []LoadCall
	closed  bool

	// QueryErr, LoadErr and TableErr, when set, are returned by the
	// corresponding call before any work is done.
	QueryErr error
	LoadErr  error
	TableErr error
}

// New creates an empty fake warehouse.
func New() *Warehouse {
	return &Warehouse{
		tables:  make(map[string]*Table),
		results: make(map[string]queryResult),
	}
}

// SetQueryResult registers the result returned for sql. Whitespace at
// either end of sql is ignored when matching.
func (w *Warehouse) SetQueryResult(sql string, columns []string, rows ...[]any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.results[strings.TrimSpace(sql)] = queryResult{columns: columns, rows: rows}
}

// PutTable seeds a table.
func (w *Warehouse) PutTable(ref bqkit.TableRef, t Table) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tables[ref.String()] = &t
}

// Loads returns every load submitted so far.
func (w *Warehouse) Loads() []LoadCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]LoadCall(nil), w.loads...)
}

// Closed reports whether Close was called.
func (w *Warehouse) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Query returns an iterator over the registered result for sql.
func (w *Warehouse) Query(ctx context.Context, sql string) (bqkit.RowIterator, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	if w.QueryErr != nil {
		return nil, w.QueryErr
	}
	res, ok := w.results[strings.TrimSpace(sql)]
	if !ok {
		return nil, &googleapi.Error{Code: http.StatusBadRequest, Message: "Syntax error: unexpected query"}
	}
	return &rowIterator{fields: bqkit.NewFields(res.columns...), rows: res.rows}, nil
}

// Load records the payload and returns a job that applies it on Wait.
func (w *Warehouse) Load(ctx context.Context, dest bqkit.TableRef, payload io.Reader, cfg bqkit.LoadJobConfig) (bqkit.LoadJob, error) {
	data, err := io.ReadAll(payload)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	if w.LoadErr != nil {
		return nil, w.LoadErr
	}

	job := &Job{id: bqkit.LoadJobPrefix + uuid.NewString(), state: bqkit.JobSubmitted, wh: w, dest: dest, cfg: cfg, data: data}
	w.loads = append(w.loads, LoadCall{Dest: dest, Config: cfg, Payload: data, Job: job})
	return job, nil
}

// Table returns the stored table or a 404 API error.
func (w *Warehouse) Table(ctx context.Context, ref bqkit.TableRef) (*bqkit.TableInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	if w.TableErr != nil {
		return nil, w.TableErr
	}
	t, ok := w.tables[ref.String()]
	if !ok {
		return nil, &googleapi.Error{Code: http.StatusNotFound, Message: "Not found: Table " + ref.String()}
	}
	return &bqkit.TableInfo{Ref: ref, NumRows: t.NumRows, Schema: append([]bqkit.SchemaField(nil), t.Schema...)}, nil
}

// Close marks the warehouse closed.
func (w *Warehouse) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// Job is a fake load job. It moves Submitted -> Running -> Succeeded or
// Failed inside Wait.
type Job struct {
	id    string
	state bqkit.JobState
	err   error
	wh    *Warehouse
	dest  bqkit.TableRef
	cfg   bqkit.LoadJobConfig
	data  []byte

	// WaitErr, when set, fails the job with this error.
	WaitErr error
}

func (j *Job) ID() string { return j.id }

// State returns the current job state.
func (j *Job) State() bqkit.JobState {
	j.wh.mu.Lock()
	defer j.wh.mu.Unlock()
	return j.state
}

// Wait applies the load. Calling it again returns the first outcome.
func (j *Job) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j.wh.mu.Lock()
	defer j.wh.mu.Unlock()
	if j.state.Terminal() {
		return j.err
	}
	j.state = bqkit.JobRunning

	j.err = j.apply(ctx)
	if j.err != nil {
		j.state = bqkit.JobFailed
	} else {
		j.state = bqkit.JobSucceeded
	}
	return j.err
}

func (j *Job) apply(ctx context.Context) error {
	if j.WaitErr != nil {
		return j.WaitErr
	}

	rows, decoded, err := decode(ctx, j.cfg.SourceFormat, j.data)
	if err != nil {
		return &bigquery.Error{Reason: "invalid", Message: err.Error()}
	}
	schema := j.cfg.Schema
	if len(schema) == 0 {
		schema = decoded
	}

	key := j.dest.String()
	existing, exists := j.wh.tables[key]
	switch j.cfg.WriteDisposition {
	case bqkit.WriteTruncate:
		j.wh.tables[key] = &Table{NumRows: rows, Schema: schema}
	case bqkit.WriteAppend:
		if !exists {
			j.wh.tables[key] = &Table{NumRows: rows, Schema: schema}
			break
		}
		existing.NumRows += rows
	case bqkit.WriteEmpty:
		if exists && existing.NumRows > 0 {
			return &bigquery.Error{
				Reason:  "duplicate",
				Message: fmt.Sprintf("Already Exists: Table %s", key),
			}
		}
		j.wh.tables[key] = &Table{NumRows: rows, Schema: schema}
	default:
		return &bigquery.Error{Reason: "invalid", Message: "unknown write disposition"}
	}
	return nil
}

func decode(ctx context.Context, format bqkit.SourceFormat, data []byte) (uint64, []bqkit.SchemaField, error) {
	switch format {
	case bqkit.SourceParquet:
		return decodeParquet(ctx, data)
	case bqkit.SourceCSV:
		n := countLines(data)
		if n > 0 {
			n-- // header
		}
		return n, nil, nil
	case bqkit.SourceJSON:
		return decodeNDJSON(data)
	}
	return 0, nil, fmt.Errorf("unsupported source format %v", format)
}

// DecodeParquet reads a Parquet payload into an arrow table. The caller
// must Release the table.
func DecodeParquet(ctx context.Context, data []byte) (arrow.Table, error) {
	mem := memory.NewGoAllocator()
	return pqarrow.ReadTable(ctx, bytes.NewReader(data), parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
}

func decodeParquet(ctx context.Context, data []byte) (uint64, []bqkit.SchemaField, error) {
	tbl, err := DecodeParquet(ctx, data)
	if err != nil {
		return 0, nil, err
	}
	defer tbl.Release()

	fields := tbl.Schema().Fields()
	schema := make([]bqkit.SchemaField, 0, len(fields))
	for _, f := range fields {
		schema = append(schema, bqkit.SchemaField{Name: f.Name, Type: fieldType(f.Type)})
	}
	return uint64(tbl.NumRows()), schema, nil
}

func fieldType(t arrow.DataType) bqkit.FieldType {
	switch tt := t.(type) {
	case *arrow.TimestampType:
		if tt.TimeZone == "" {
			return bqkit.FieldDateTime
		}
		return bqkit.FieldTimestamp
	}
	switch t.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64:
		return bqkit.FieldInteger
	case arrow.FLOAT32, arrow.FLOAT64:
		return bqkit.FieldFloat
	case arrow.BOOL:
		return bqkit.FieldBoolean
	case arrow.DATE32:
		return bqkit.FieldDate
	}
	return bqkit.FieldString
}

// decodeNDJSON checks every line is a JSON object and takes the column
// names of the first one.
func decodeNDJSON(data []byte) (uint64, []bqkit.SchemaField, error) {
	var (
		n      uint64
		schema []bqkit.SchemaField
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		n++
		if !gjson.ValidBytes(line) {
			return 0, nil, fmt.Errorf("line %d is not valid JSON", n)
		}
		obj := gjson.ParseBytes(line)
		if !obj.IsObject() {
			return 0, nil, fmt.Errorf("line %d is not a JSON object", n)
		}
		if schema == nil {
			schema = []bqkit.SchemaField{}
			obj.ForEach(func(key, value gjson.Result) bool {
				schema = append(schema, bqkit.SchemaField{Name: key.String(), Type: jsonType(value)})
				return true
			})
		}
	}
	return n, schema, sc.Err()
}

func jsonType(v gjson.Result) bqkit.FieldType {
	switch v.Type {
	case gjson.Number:
		if strings.ContainsAny(v.Raw, ".eE") {
			return bqkit.FieldFloat
		}
		return bqkit.FieldInteger
	case gjson.True, gjson.False:
		return bqkit.FieldBoolean
	}
	return bqkit.FieldString
}

func countLines(data []byte) uint64 {
	var n uint64
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) > 0 {
			n++
		}
	}
	return n
}

type rowIterator struct {
	fields *bqkit.Fields
	rows   [][]any
	pos    int
}

func (it *rowIterator) Next() (bqkit.Row, error) {
	if it.pos >= len(it.rows) {
		return bqkit.Row{}, iterator.Done
	}
	row := bqkit.NewRow(it.fields, append([]any(nil), it.rows[it.pos]...))
	it.pos++
	return row, nil
}

func (it *rowIterator) TotalRows() uint64 {
	return uint64(len(it.rows))
}

var (
	_ bqkit.Warehouse = (*Warehouse)(nil)
	_ bqkit.LoadJob   = (*Job)(nil)
)
