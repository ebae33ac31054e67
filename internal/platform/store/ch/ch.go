// Package ch provides a clickhouse client over clickhouse-go
package ch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL string

	// Role and Tag are reported in system.query_log client info
	Role string
	Tag  string
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// Conn is the subset of driver.Conn the client needs
type Conn interface {
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
	Exec(ctx context.Context, query string, args ...any) error
	Ping(ctx context.Context) error
	Close() error
}

// CH is a clickhouse connection pool
type CH struct {
	conn Conn
}

// seam for tests
var dial = func(opt *clickhouse.Options) (Conn, error) { return clickhouse.Open(opt) }

// New wraps an already open connection
func New(c Conn) *CH { return &CH{conn: c} }

// Open parses the DSN, opens a pool and pings it
func Open(ctx context.Context, cfg Config) (*CH, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("ch: empty url")
	}
	opt, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	if cfg.Role != "" || cfg.Tag != "" {
		opt.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)
	}
	c, err := dial(opt)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ch: ping: %w", err)
	}
	return &CH{conn: c}, nil
}

// Insert appends rows to table in a single native batch
// Each row lists values in the table's column order
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	b, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return fmt.Errorf("ch: prepare batch %s: %w", table, err)
	}
	for i, r := range rows {
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return fmt.Errorf("ch: append row %d to %s: %w", i, table, err)
		}
	}
	if err := b.Send(); err != nil {
		return fmt.Errorf("ch: send batch %s: %w", table, err)
	}
	return nil
}

// Exec runs a statement without results, eg DDL
func (c *CH) Exec(ctx context.Context, query string, args ...any) error {
	return c.conn.Exec(ctx, query, args...)
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	r, err := c.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Ping checks connectivity
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Close closes resources
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
