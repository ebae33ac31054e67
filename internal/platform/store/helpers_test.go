package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
)

// memRows replays values into Scan destinations
type memRows struct {
	data   [][]any
	i      int
	err    error
	closed bool
}

func (r *memRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *memRows) Scan(dest ...any) error {
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.data[r.i-1][i]))
	}
	return nil
}

func (r *memRows) Err() error        { return r.err }
func (r *memRows) Close()            { r.closed = true }
func (r *memRows) Columns() []string { return nil }

type memQuerier struct {
	rows     *memRows
	queryErr error
}

func (q *memQuerier) Exec(context.Context, string, ...any) (CommandTag, error) { return nil, nil }

func (q *memQuerier) Query(context.Context, string, ...any) (Rows, error) {
	if q.queryErr != nil {
		return nil, q.queryErr
	}
	return q.rows, nil
}

func (q *memQuerier) QueryRow(context.Context, string, ...any) Row {
	q.rows.Next()
	return q.rows
}

func scanName(r Row) (string, error) {
	var s string
	err := r.Scan(&s)
	return s, err
}

var bg = context.Background()

func TestScalar(t *testing.T) {
	n, err := Scalar[int64](bg, &memQuerier{rows: &memRows{data: [][]any{{int64(4)}}}}, "SELECT count(*)")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestOne(t *testing.T) {
	q := &memQuerier{rows: &memRows{data: [][]any{{"acme"}}}}
	got, err := One(bg, q, scanName, "q")
	require.NoError(t, err)
	assert.Equal(t, "acme", got)
	assert.True(t, q.rows.closed)

	_, err = One(bg, &memQuerier{rows: &memRows{}}, scanName, "q")
	assert.ErrorIs(t, err, perr.ErrNotFound)

	_, err = One(bg, &memQuerier{rows: &memRows{data: [][]any{{"a"}, {"b"}}}}, scanName, "q")
	assert.ErrorContains(t, err, "expected 1 row")

	iterErr := errors.New("iter")
	_, err = One(bg, &memQuerier{rows: &memRows{err: iterErr}}, scanName, "q")
	assert.ErrorIs(t, err, iterErr)
}

func TestMany(t *testing.T) {
	got, err := Many(bg, &memQuerier{rows: &memRows{data: [][]any{{"a"}, {"b"}}}}, scanName, "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	empty, err := Many(bg, &memQuerier{rows: &memRows{}}, scanName, "q")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	boom := errors.New("boom")
	_, err = Many(bg, &memQuerier{queryErr: boom}, scanName, "q")
	assert.ErrorIs(t, err, boom)

	_, err = Many(bg, &memQuerier{rows: &memRows{data: [][]any{{"a"}}, err: boom}}, scanName, "q")
	assert.ErrorIs(t, err, boom)
}
