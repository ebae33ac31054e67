package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/store"
)

// MirrorTable is the ClickHouse table holding the event stream copy
const MirrorTable = "deal_events"

const mirrorDDL = `
CREATE TABLE IF NOT EXISTS deal_events (
    event_type  LowCardinality(String),
    deal_id     String,
    source_hash String,
    payload     String,
    created_at  DateTime64(3, 'UTC')
)
ENGINE = MergeTree
ORDER BY (source_hash, created_at)`

// Mirror appends audit events to ClickHouse for analytics
// It is an event sink; Postgres stays the system of record
type Mirror struct {
	ch store.Clickhouse
}

// NewMirror returns a mirror over ch; a nil ch yields a nil mirror
func NewMirror(ch store.Clickhouse) *Mirror {
	if ch == nil {
		return nil
	}
	return &Mirror{ch: ch}
}

// EnsureSchema creates the mirror table
func (m *Mirror) EnsureSchema(ctx context.Context) error {
	if m == nil {
		return errors.New("deals mirror: nil clickhouse")
	}
	if err := m.ch.Exec(ctx, mirrorDDL); err != nil {
		return fmt.Errorf("deals mirror schema: %w", err)
	}
	return nil
}

// Append writes one event row
func (m *Mirror) Append(ctx context.Context, ev triage.Event) error {
	if m == nil {
		return nil
	}
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	at := ev.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	row := []any{string(ev.Type), ev.DealID, ev.SourceHash, string(payload), at.UTC()}
	return m.ch.Insert(ctx, MirrorTable, [][]any{row})
}

// CountByType aggregates the mirrored stream, used by ops tooling
func (m *Mirror) CountByType(ctx context.Context, since time.Time) (map[triage.EventType]uint64, error) {
	if m == nil {
		return nil, errors.New("deals mirror: nil clickhouse")
	}
	rows, err := m.ch.Query(ctx,
		`SELECT event_type, count() FROM deal_events WHERE created_at >= ? GROUP BY event_type`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("deals mirror query: %w", err)
	}
	defer rows.Close()

	out := map[triage.EventType]uint64{}
	for rows.Next() {
		var typ string
		var n uint64
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		out[triage.EventType(typ)] = n
	}
	return out, rows.Err()
}
