package store

import (
	"context"
	"errors"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is what *pgxpool.Pool and pgx.Tx have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced runs statements on q and reports each one to tracer when set
type traced struct {
	q      pgxQuerier
	tracer pg.QueryTracer
	slow   time.Duration
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.q.Exec(ctx, sql, args...)
	t.report(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return ct, nil
}

func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.q.Query(ctx, sql, args...)
	t.report(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgxRows{rs}, nil
}

// QueryRow reports once Scan returns so row errors land in the trace
func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	return tracedRow{
		row:  t.q.QueryRow(ctx, sql, args...),
		done: func(err error) { t.report(ctx, sql, args, start, err) },
	}
}

func (t traced) report(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	elapsed := time.Since(start)
	t.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:     sql,
		Args:    args,
		Elapsed: elapsed,
		Err:     err,
		Slow:    t.slow > 0 && elapsed >= t.slow,
	})
}

type tracedRow struct {
	row  pgx.Row
	done func(error)
}

func (r tracedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	r.done(err)
	return err
}

type pgxRows struct{ pgx.Rows }

func (r pgxRows) Columns() []string {
	fds := r.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}
	return cols
}

// pgStore is the TxRunner over a pool
type pgStore struct {
	traced
	p *pg.PG
}

func newPGStore(p *pg.PG) *pgStore {
	return &pgStore{traced: traced{q: p.Pool, tracer: p.Tracer, slow: p.SlowThreshold()}, p: p}
}

// Tx runs fn in a transaction whose statements are traced like pool statements
func (s *pgStore) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := s.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	// no-op once committed
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(traced{q: tx, tracer: s.tracer, slow: s.slow}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *pgStore) Ping(ctx context.Context) error {
	if s == nil || s.p == nil || s.p.Pool == nil {
		return errors.New("pg: not open")
	}
	return s.p.Pool.Ping(ctx)
}

func (s *pgStore) Close() error {
	s.p.Close()
	return nil
}
