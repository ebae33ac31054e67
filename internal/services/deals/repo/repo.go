// Package repo provides the deals repository implementation
package repo

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/repokit"
	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/store"
	pstrings "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/strings"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/domain"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the Postgres DDL for deals and deal_events
func Schema() string { return schemaSQL }

// EnsureSchema applies the DDL; every statement is idempotent
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return perr.FromPostgres(err, "apply deals schema")
	}
	return nil
}

// Repo is the deals persistence surface used by the service layer
type Repo interface {
	triage.Lookup

	// InsertDeal writes a new deal; a source_hash collision surfaces as perr.ErrorCodeDuplicateKey
	InsertDeal(ctx context.Context, d domain.Deal) error
	TouchUpdatedAt(ctx context.Context, id string, at time.Time) error
	InsertEvent(ctx context.Context, ev triage.Event) error

	Get(ctx context.Context, id string) (domain.Deal, error)
	Events(ctx context.Context, dealID string) ([]triage.Event, error)
	List(ctx context.Context, f domain.ListFilter) ([]domain.Deal, error)
	Count(ctx context.Context, status triage.Status) (int, error)
}

type (
	// PG is a Postgres implementation of the deals repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const refCols = `id::text, source_hash, website_key, status`

func scanRef(r store.Row) (triage.DealRef, error) {
	var ref triage.DealRef
	var status string
	if err := r.Scan(&ref.ID, &ref.SourceHash, &ref.WebsiteKey, &status); err != nil {
		return triage.DealRef{}, err
	}
	ref.Status = triage.Status(status)
	return ref, nil
}

// BySourceHash finds the deal holding hash
func (r *queries) BySourceHash(ctx context.Context, hash string) (*triage.DealRef, error) {
	const sql = `SELECT ` + refCols + ` FROM deals WHERE source_hash = $1`
	return r.lookup(ctx, sql, hash)
}

// ByWebsiteKey finds the oldest deal for a website key
func (r *queries) ByWebsiteKey(ctx context.Context, key string) (*triage.DealRef, error) {
	const sql = `SELECT ` + refCols + ` FROM deals WHERE website_key = $1 ORDER BY created_at ASC, id ASC LIMIT 1`
	return r.lookup(ctx, sql, key)
}

func (r *queries) lookup(ctx context.Context, sql string, arg string) (*triage.DealRef, error) {
	ref, err := store.One(ctx, r.q, scanRef, sql, arg)
	if errors.Is(err, perr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, perr.FromPostgres(err, "deal lookup")
	}
	return &ref, nil
}

// InsertDeal writes a new deal row
func (r *queries) InsertDeal(ctx context.Context, d domain.Deal) error {
	const sql = `
		INSERT INTO deals (
			id, company_name, website, website_key, sector, stage, geography, pitch,
			force_fit_score, normalized_payload, memo, fit_score, fit_reasoning, status,
			source_hash, created_at, updated_at
		) VALUES (
			$1::uuid, $2, $3, $4, $5, $6, $7, $8,
			$9, $10::jsonb, $11::jsonb, $12, $13, $14,
			$15, $16, $17
		)`

	var memo []byte
	if d.Memo != nil {
		b, err := json.Marshal(d.Memo)
		if err != nil {
			return fmt.Errorf("marshal memo: %w", err)
		}
		memo = b
	}
	payload := []byte(d.NormalizedPayload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	_, err := r.q.Exec(ctx, sql,
		d.ID, d.CompanyName, d.Website, d.WebsiteKey, d.Sector, d.Stage, d.Geography, d.Pitch,
		d.ForceFitScore, payload, memo, d.FitScore, d.FitReasoning, string(d.Status),
		d.SourceHash, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return perr.FromPostgres(err, "insert deal")
	}
	return nil
}

// TouchUpdatedAt refreshes updated_at and nothing else
func (r *queries) TouchUpdatedAt(ctx context.Context, id string, at time.Time) error {
	const sql = `UPDATE deals SET updated_at = GREATEST(updated_at, $2) WHERE id = $1::uuid`
	tag, err := r.q.Exec(ctx, sql, id, at)
	if err != nil {
		return perr.FromPostgres(err, "touch deal")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("deal %s not found", id)
	}
	return nil
}

// InsertEvent appends an audit entry
func (r *queries) InsertEvent(ctx context.Context, ev triage.Event) error {
	const sql = `
		INSERT INTO deal_events (event_type, deal_id, source_hash, payload, created_at)
		VALUES ($1, $2::uuid, $3, $4::jsonb, $5)`

	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	at := ev.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if _, err := r.q.Exec(ctx, sql, string(ev.Type), pstrings.SQLNull(ev.DealID), ev.SourceHash, payload, at); err != nil {
		return perr.FromPostgres(err, "insert deal event")
	}
	return nil
}

const dealCols = `
	id::text, company_name, website, website_key, sector, stage, geography, pitch,
	force_fit_score, normalized_payload, memo, fit_score, fit_reasoning, status,
	source_hash, created_at, updated_at`

func scanDeal(r store.Row) (domain.Deal, error) {
	var (
		d       domain.Deal
		force   *int32
		score   *int32
		payload []byte
		memo    []byte
		status  string
	)
	if err := r.Scan(
		&d.ID, &d.CompanyName, &d.Website, &d.WebsiteKey, &d.Sector, &d.Stage, &d.Geography, &d.Pitch,
		&force, &payload, &memo, &score, &d.FitReasoning, &status,
		&d.SourceHash, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return domain.Deal{}, err
	}
	d.ForceFitScore = intPtr(force)
	d.FitScore = intPtr(score)
	d.NormalizedPayload = json.RawMessage(payload)
	d.Status = triage.Status(status)
	if len(memo) > 0 {
		var m triage.Memo
		if err := json.Unmarshal(memo, &m); err != nil {
			return domain.Deal{}, fmt.Errorf("decode memo for deal %s: %w", d.ID, err)
		}
		d.Memo = &m
	}
	return d, nil
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

// Get loads one deal by id
func (r *queries) Get(ctx context.Context, id string) (domain.Deal, error) {
	const sql = `SELECT ` + dealCols + ` FROM deals WHERE id = $1::uuid`
	d, err := store.One(ctx, r.q, scanDeal, sql, id)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.Deal{}, perr.NotFoundf("deal %s not found", id)
	}
	if err != nil {
		return domain.Deal{}, perr.FromPostgres(err, "get deal")
	}
	return d, nil
}

// Events returns the audit trail of a deal, oldest first
func (r *queries) Events(ctx context.Context, dealID string) ([]triage.Event, error) {
	const sql = `
		SELECT event_type, COALESCE(deal_id::text, ''), source_hash, payload, created_at
		  FROM deal_events
		 WHERE deal_id = $1::uuid
		 ORDER BY created_at ASC, id ASC`

	evs, err := store.Many(ctx, r.q, scanEvent, sql, dealID)
	if err != nil {
		return nil, perr.FromPostgres(err, "list deal events")
	}
	return evs, nil
}

func scanEvent(r store.Row) (triage.Event, error) {
	var (
		ev      triage.Event
		typ     string
		payload []byte
	)
	if err := r.Scan(&typ, &ev.DealID, &ev.SourceHash, &payload, &ev.CreatedAt); err != nil {
		return triage.Event{}, err
	}
	ev.Type = triage.EventType(typ)
	ev.Payload = map[string]any{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &ev.Payload); err != nil {
			return triage.Event{}, fmt.Errorf("decode event payload: %w", err)
		}
	}
	return ev, nil
}

// List returns recent deals, newest first
func (r *queries) List(ctx context.Context, f domain.ListFilter) ([]domain.Deal, error) {
	f = f.Normalize()
	const sql = `SELECT ` + dealCols + `
		  FROM deals
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`

	ds, err := store.Many(ctx, r.q, scanDeal, sql, string(f.Status), f.Limit, f.Offset)
	if err != nil {
		return nil, perr.FromPostgres(err, "list deals")
	}
	return ds, nil
}

// Count returns the number of deals with status, or all deals when status is empty
func (r *queries) Count(ctx context.Context, status triage.Status) (int, error) {
	const sql = `SELECT count(*) FROM deals WHERE ($1 = '' OR status = $1)`
	n, err := store.Scalar[int64](ctx, r.q, sql, string(status))
	if err != nil {
		return 0, perr.FromPostgres(err, "count deals")
	}
	return int(n), nil
}

// Migrate applies the Postgres schema and, when ch is set, the ClickHouse mirror table
func Migrate(ctx context.Context, q repokit.Queryer, ch store.Clickhouse) error {
	if err := EnsureSchema(ctx, q); err != nil {
		return err
	}
	if m := NewMirror(ch); m != nil {
		return m.EnsureSchema(ctx)
	}
	return nil
}

// StatementTimeout bounds every statement in a deals transaction
// set_config(..., true) scopes the value to the current tx
func StatementTimeout(d time.Duration) repokit.BeginHook {
	ms := d.Milliseconds()
	return func(ctx context.Context, q repokit.Queryer) error {
		if _, err := q.Exec(ctx, `SELECT set_config('statement_timeout', $1, true)`, fmt.Sprintf("%dms", ms)); err != nil {
			return perr.FromPostgres(err, "set statement_timeout")
		}
		return nil
	}
}
