package query

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/vvka-141/bqkit/internal/logging"
	"github.com/vvka-141/bqkit/internal/testing/fakewarehouse"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

var texasTop = [][]any{
	{"James", int64(272793)},
	{"John", int64(235139)},
	{"Michael", int64(225320)},
	{"Robert", int64(220399)},
}

func newFake(t *testing.T) *fakewarehouse.Warehouse {
	t.Helper()
	wh := fakewarehouse.New()
	wh.SetQueryResult(DefaultQuery, []string{"name", "total_people"}, texasTop...)
	return wh
}

func TestRun_PrintsHeaderAndOneLinePerRow(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner(newFake(t), logging.NewNullLogger(), &out)

	n, err := r.Run(context.Background(), DefaultQuery, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, strings.Join([]string{
		"The query data:",
		"name=James, count=272793",
		"name=John, count=235139",
		"name=Michael, count=225320",
		"name=Robert, count=220399",
		"",
	}, "\n"), out.String())
}

func TestRun_PositionAndNameAgree(t *testing.T) {
	var seen []bqkit.Row
	r := NewRunner(newFake(t), logging.NewNullLogger(), &bytes.Buffer{})

	_, err := r.Run(context.Background(), DefaultQuery, func(row bqkit.Row) error {
		seen = append(seen, row)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 4)

	var prev int64 = -1
	for i, row := range seen {
		byName, ok := row.Get("total_people")
		require.True(t, ok)
		assert.Equal(t, row.At(1), byName, "row %d", i)

		count := byName.(int64)
		if prev >= 0 {
			assert.LessOrEqual(t, count, prev, "rows must be ordered by total_people descending")
		}
		prev = count
	}
}

func TestRun_EmptySQLDoesNotContactWarehouse(t *testing.T) {
	wh := fakewarehouse.New()
	wh.QueryErr = errors.New("must not be called")
	var out bytes.Buffer

	_, err := NewRunner(wh, logging.NewNullLogger(), &out).Run(context.Background(), "  \n", nil)
	assert.ErrorIs(t, err, bqkit.ErrInvalidConfig)
	assert.Empty(t, out.String())
}

func TestRun_ServiceErrorStaysReachable(t *testing.T) {
	wh := fakewarehouse.New()
	var out bytes.Buffer

	_, err := NewRunner(wh, logging.NewNullLogger(), &out).Run(context.Background(), "SELEC 1", nil)
	require.Error(t, err)

	var apiErr *googleapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Code)
	assert.Empty(t, out.String())
}

func TestRun_VisitErrorStops(t *testing.T) {
	stop := errors.New("stop")
	var out bytes.Buffer
	r := NewRunner(newFake(t), logging.NewNullLogger(), &out)

	n, err := r.Run(context.Background(), DefaultQuery, func(bqkit.Row) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)
}

func TestRunToFrame_SinglePass(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner(newFake(t), logging.NewNullLogger(), &out)

	f, err := r.RunToFrame(context.Background(), DefaultQuery)
	require.NoError(t, err)

	assert.Equal(t, 4, f.Len())
	assert.Equal(t, []string{"name", "total_people"}, f.Columns())
	v, _ := f.Value(2, "name")
	assert.Equal(t, "Michael", v)
	// the rows were printed while being collected
	assert.Equal(t, 5, strings.Count(out.String(), "\n"))
}

func TestGenericLine(t *testing.T) {
	row := bqkit.NewRow(bqkit.NewFields("a", "b"), []any{1, "x"})
	assert.Equal(t, "a=1, b=x", GenericLine(row))
}

func TestPeopleLine_MissingColumn(t *testing.T) {
	row := bqkit.NewRow(bqkit.NewFields("name"), []any{"Ann"})
	assert.Equal(t, "name=Ann, count=<nil>", PeopleLine(row))
}

func TestWithLineFormatter(t *testing.T) {
	wh := fakewarehouse.New()
	wh.SetQueryResult("SELECT 1", []string{"x"}, []any{int64(1)})
	var out bytes.Buffer

	base := NewRunner(wh, logging.NewNullLogger(), &out)
	custom := base.WithLineFormatter(func(row bqkit.Row) string { return fmt.Sprintf("<%v>", row.At(0)) })

	_, err := custom.Run(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)
	assert.Equal(t, "The query data:\n<1>\n", out.String())
	assert.NotSame(t, base, custom)
}

func TestNewRunner_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewRunner(nil, logging.NewNullLogger(), &bytes.Buffer{}) })
	assert.Panics(t, func() { NewRunner(fakewarehouse.New(), nil, &bytes.Buffer{}) })
	assert.Panics(t, func() { NewRunner(fakewarehouse.New(), logging.NewNullLogger(), nil) })
}
