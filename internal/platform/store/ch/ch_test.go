package ch

import (
	"context"
	"errors"
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// fakeBatch embeds driver.Batch so only the used methods need bodies
type fakeBatch struct {
	driver.Batch
	rows      [][]any
	appendErr error
	sent      bool
	aborted   bool
}

func (b *fakeBatch) Append(v ...any) error {
	if b.appendErr != nil {
		return b.appendErr
	}
	b.rows = append(b.rows, v)
	return nil
}
func (b *fakeBatch) Send() error  { b.sent = true; return nil }
func (b *fakeBatch) Abort() error { b.aborted = true; return nil }

type fakeConn struct {
	batch   *fakeBatch
	query   string
	pingErr error
	closed  bool
	execs   []string
}

func (c *fakeConn) Query(_ context.Context, q string, _ ...any) (driver.Rows, error) {
	return nil, errors.New("no rows in fake")
}
func (c *fakeConn) PrepareBatch(_ context.Context, q string, _ ...driver.PrepareBatchOption) (driver.Batch, error) {
	c.query = q
	return c.batch, nil
}
func (c *fakeConn) Exec(_ context.Context, q string, _ ...any) error {
	c.execs = append(c.execs, q)
	return nil
}
func (c *fakeConn) Ping(context.Context) error { return c.pingErr }
func (c *fakeConn) Close() error               { c.closed = true; return nil }

func withDial(t *testing.T, fc *fakeConn) *clickhouse.Options {
	t.Helper()
	var seen clickhouse.Options
	orig := dial
	dial = func(opt *clickhouse.Options) (Conn, error) {
		seen = *opt
		return fc, nil
	}
	t.Cleanup(func() { dial = orig })
	return &seen
}

func TestOpen_ParsesDSNAndPings(t *testing.T) {
	fc := &fakeConn{}
	seen := withDial(t, fc)

	cl, err := Open(context.Background(), Config{URL: "clickhouse://u:p@localhost:9000/deals", Role: "api", Tag: "v1"})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if cl == nil {
		t.Fatalf("Open returned nil client")
	}
	if seen.Auth.Database != "deals" || seen.Auth.Username != "u" {
		t.Fatalf("dsn not parsed: %+v", seen.Auth)
	}
	if len(seen.ClientInfo.Products) == 0 || seen.ClientInfo.Products[0].Name != "dealflow" {
		t.Fatalf("client info not set: %+v", seen.ClientInfo)
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for empty url")
	}

	fc := &fakeConn{pingErr: errors.New("refused")}
	withDial(t, fc)
	if _, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000"}); err == nil {
		t.Fatalf("expected ping error")
	}
	if !fc.closed {
		t.Fatalf("conn should be closed after failed ping")
	}
}

func TestInsert_Batches(t *testing.T) {
	fb := &fakeBatch{}
	cl := New(&fakeConn{batch: fb})

	rows := [][]any{{"a", 1}, {"b", 2}}
	if err := cl.Insert(context.Background(), "deal_events", rows); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if len(fb.rows) != 2 || !fb.sent {
		t.Fatalf("batch = %+v", fb)
	}

	if err := cl.Insert(context.Background(), "deal_events", nil); err != nil {
		t.Fatalf("empty insert should be a no-op: %v", err)
	}
}

func TestInsert_AppendFailureAborts(t *testing.T) {
	fb := &fakeBatch{appendErr: errors.New("bad column")}
	cl := &CH{conn: &fakeConn{batch: fb}}
	if err := cl.Insert(context.Background(), "deal_events", [][]any{{"x"}}); err == nil {
		t.Fatalf("expected append error")
	}
	if !fb.aborted || fb.sent {
		t.Fatalf("batch should be aborted and unsent: %+v", fb)
	}
}

func TestExecAndClose(t *testing.T) {
	fc := &fakeConn{}
	cl := &CH{conn: fc}
	if err := cl.Exec(context.Background(), "CREATE TABLE x"); err != nil || len(fc.execs) != 1 {
		t.Fatalf("Exec: %v %v", err, fc.execs)
	}
	if err := cl.Close(); err != nil || !fc.closed {
		t.Fatalf("Close: %v", err)
	}
	var nilCH *CH
	if err := nilCH.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}

func TestBuildClientInfo(t *testing.T) {
	ci := BuildClientInfo("cli", "")
	if len(ci.Products) != 5 {
		t.Fatalf("products = %+v", ci.Products)
	}
	if ci.Products[0].Version != "unknown" || ci.Products[1].Version != "cli" {
		t.Fatalf("unexpected products: %+v", ci.Products)
	}
}
