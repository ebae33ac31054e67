// Package store opens the backends a process needs and hands out narrow seams over them
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
)

// Store holds whichever backends were enabled at Open
// A disabled backend stays nil
type Store struct {
	Log logger.Logger

	// PG is the transactional SQL seam
	PG TxRunner

	// CH is the columnar seam
	CH Clickhouse
}

// Row is a single-row result
type Row interface {
	Scan(dest ...any) error
}

// Rows is a forward-only result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag describes what a write did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier runs SQL against a pool or an open transaction
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is a RowQuerier that can also open transactions
// fn's error rolls the transaction back, nil commits
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam used for append-only mirrors
type Clickhouse interface {
	Insert(ctx context.Context, table string, data any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger reports backend readiness
type Pinger interface{ Ping(context.Context) error }

// Open connects every backend enabled in cfg, failing on the first one that can't be reached
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: zerologNop}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	if cfg.PG.Enabled {
		db, err := openPG(ctx, cfg, s.Log)
		if err != nil {
			return nil, err
		}
		s.PG = db
	}

	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg, s.Log)
		if err != nil {
			if s.PG != nil {
				_ = s.Close(ctx)
			}
			return nil, err
		}
		s.CH = c
	}

	return s, nil
}

// Guard pings every backend that knows how to
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	check := func(name string, seam any) {
		if p, ok := seam.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	if s.PG != nil {
		check("pg", s.PG)
	}
	if s.CH != nil {
		check("ch", s.CH)
	}
	return errors.Join(errs...)
}

// Close releases every open backend and joins their errors
func (s *Store) Close(context.Context) error {
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
