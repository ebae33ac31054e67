// Package pg opens the pgx pool behind the store's SQL seam
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	// SlowMs flags traced queries at or above this latency, zero disables the flag
	SlowMs int
	// AppName is sent as application_name so sessions are identifiable in pg_stat_activity
	AppName string
}

// PG is an open pool plus the tracer its queries report to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

// seam for tests
var newPool = pgxpool.NewWithConfig

// Open builds the pool; connections are dialed lazily
func Open(ctx context.Context, cfg Config, tracer QueryTracer) (*PG, error) {
	pcfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: new pool: %w", err)
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

func poolConfig(cfg Config) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	return pcfg, nil
}

// SlowThreshold is SlowMs as a duration
func (p *PG) SlowThreshold() time.Duration {
	if p == nil || p.SlowMs <= 0 {
		return 0
	}
	return time.Duration(p.SlowMs) * time.Millisecond
}

// Close closes the pool; safe on nil
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
