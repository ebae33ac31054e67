package repo

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/store"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/domain"
)

// fakeRows replays fixed rows into Scan destinations
type fakeRows struct {
	rows [][]any
	i    int
}

func (r *fakeRows) Next() bool {
	r.i++
	return r.i <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.i-1]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		dv.Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func (r *fakeRows) Err() error        { return nil }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return nil }

// fakeQ records statements and returns canned results
type fakeQ struct {
	rows    [][]any
	tag     string
	err     error
	lastSQL string
	args    []any
}

func (q *fakeQ) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	q.lastSQL, q.args = sql, args
	if q.err != nil {
		return nil, q.err
	}
	return pgconn.NewCommandTag(q.tag), nil
}

func (q *fakeQ) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	q.lastSQL, q.args = sql, args
	if q.err != nil {
		return nil, q.err
	}
	return &fakeRows{rows: q.rows}, nil
}

func (q *fakeQ) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	q.lastSQL, q.args = sql, args
	return &fakeRows{rows: q.rows, i: 1}
}

var ctx = context.Background()

func TestLookups(t *testing.T) {
	q := &fakeQ{}
	r := NewPG().Bind(q)

	ref, err := r.BySourceHash(ctx, "h1")
	require.NoError(t, err)
	assert.Nil(t, ref)
	assert.Equal(t, []any{"h1"}, q.args)

	q.rows = [][]any{{"d1", "h1", "acme.io", "Review"}}
	ref, err = r.ByWebsiteKey(ctx, "acme.io")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, triage.DealRef{ID: "d1", SourceHash: "h1", WebsiteKey: "acme.io", Status: triage.StatusReview}, *ref)
	assert.Contains(t, q.lastSQL, "ORDER BY created_at ASC")

	q.err = errors.New("conn reset")
	_, err = r.BySourceHash(ctx, "h1")
	assert.Error(t, err)
}

func TestInsertDeal(t *testing.T) {
	q := &fakeQ{tag: "INSERT 0 1"}
	r := NewPG().Bind(q)
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	d := domain.Deal{ID: "d1", CompanyName: "Acme", Status: triage.StatusLLMError, SourceHash: "h", CreatedAt: at, UpdatedAt: at}
	require.NoError(t, r.InsertDeal(ctx, d))
	assert.Equal(t, []byte("{}"), q.args[9])
	assert.Nil(t, q.args[10])
	assert.Equal(t, "LLM_Error", q.args[13])

	score := 72
	d.Memo = &triage.Memo{FitScore: 72, ExecutiveSummary: "ok"}
	d.FitScore = &score
	require.NoError(t, r.InsertDeal(ctx, d))
	assert.Contains(t, string(q.args[10].([]byte)), `"fit_score":72`)

	q.err = &pgconn.PgError{Code: "23505", ConstraintName: "deals_source_hash_key"}
	err := r.InsertDeal(ctx, d)
	assert.True(t, perr.IsDuplicateKey(err))
}

func TestTouchUpdatedAt(t *testing.T) {
	q := &fakeQ{tag: "UPDATE 1"}
	r := NewPG().Bind(q)
	require.NoError(t, r.TouchUpdatedAt(ctx, "d1", time.Now()))
	assert.Contains(t, q.lastSQL, "GREATEST")

	q.tag = "UPDATE 0"
	assert.True(t, perr.IsCode(r.TouchUpdatedAt(ctx, "d1", time.Now()), perr.ErrorCodeNotFound))
}

func TestInsertEvent(t *testing.T) {
	q := &fakeQ{tag: "INSERT 0 1"}
	r := NewPG().Bind(q)
	ev := triage.NewEvent(triage.EventIntakeReceived, "h", map[string]any{"company_name": "Acme"})
	require.NoError(t, r.InsertEvent(ctx, ev))
	assert.Equal(t, "intake_received", q.args[0])
	assert.Nil(t, q.args[1])
	assert.JSONEq(t, `{"company_name":"Acme"}`, string(q.args[3].([]byte)))
	assert.Contains(t, q.lastSQL, "$2::uuid")
}

func dealRow(memo []byte, score *int32) []any {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	var s any
	if score != nil {
		s = score
	}
	var m any
	if memo != nil {
		m = memo
	}
	return []any{
		"d1", "Acme", "acme.io", "acme.io", "B2B SaaS", "Seed", "Brazil", "pitch",
		nil, []byte(`{"company_name":"acme"}`), m, s, "reason", "Qualified",
		"h", at, at,
	}
}

func TestGet(t *testing.T) {
	score := int32(80)
	q := &fakeQ{rows: [][]any{dealRow([]byte(`{"fit_score":80,"executive_summary":"x","strengths":[],"risks":[],"diligence_questions":[],"fit_reasoning":"reason"}`), &score)}}
	r := NewPG().Bind(q)

	d, err := r.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, triage.StatusQualified, d.Status)
	require.NotNil(t, d.FitScore)
	assert.Equal(t, 80, *d.FitScore)
	assert.Nil(t, d.ForceFitScore)
	require.NotNil(t, d.Memo)
	assert.Equal(t, 80, d.Memo.FitScore)

	q.rows = nil
	_, err = r.Get(ctx, "missing")
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}

func TestListAndCount(t *testing.T) {
	q := &fakeQ{rows: [][]any{dealRow(nil, nil), dealRow(nil, nil)}}
	r := NewPG().Bind(q)

	ds, err := r.List(ctx, domain.ListFilter{Status: triage.StatusPass, Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, ds, 2)
	assert.Nil(t, ds[0].Memo)
	assert.Equal(t, []any{"Pass", domain.MaxLimit, 0}, q.args)

	q.rows = [][]any{{int64(7)}}
	n, err := r.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestEvents_EmptyIsNotNil(t *testing.T) {
	q := &fakeQ{}
	evs, err := NewPG().Bind(q).Events(ctx, "d1")
	require.NoError(t, err)
	assert.NotNil(t, evs)
	assert.Empty(t, evs)
}

func TestSchema(t *testing.T) {
	s := Schema()
	for _, want := range []string{"CREATE TABLE IF NOT EXISTS deals", "deals_source_hash_key", "deal_events", "LLM_Error"} {
		assert.True(t, strings.Contains(s, want), want)
	}

	q := &fakeQ{}
	require.NoError(t, Migrate(ctx, q, nil))
	assert.Equal(t, s, q.lastSQL)
}

func TestStatementTimeout(t *testing.T) {
	q := &fakeQ{tag: "SELECT 1"}
	require.NoError(t, StatementTimeout(1500*time.Millisecond)(ctx, q))
	assert.Contains(t, q.lastSQL, "set_config('statement_timeout'")
	assert.Equal(t, []any{"1500ms"}, q.args)

	q = &fakeQ{err: errors.New("conn closed")}
	assert.Error(t, StatementTimeout(time.Second)(ctx, q))
}
