package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/repokit"
	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/store"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/domain"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/repo"
)

// fakeRepo is an in-memory deals repo
var _ triage.Emitter = (*fanout)(nil)

type fakeRepo struct {
	mu      sync.Mutex
	deals   []domain.Deal
	events  []triage.Event
	touched map[string]time.Time

	lookupErr error
	insertErr error
	eventErr  error

	// raceWinner is inserted right before InsertDeal reports a unique violation
	raceWinner *domain.Deal
}

func newFakeRepo() *fakeRepo { return &fakeRepo{touched: map[string]time.Time{}} }

var _ repo.Repo = (*fakeRepo)(nil)

func (f *fakeRepo) BySourceHash(_ context.Context, hash string) (*triage.DealRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, d := range f.deals {
		if d.SourceHash == hash {
			ref := d.Ref()
			return &ref, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ByWebsiteKey(_ context.Context, key string) (*triage.DealRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, d := range f.deals {
		if d.WebsiteKey == key {
			ref := d.Ref()
			return &ref, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) InsertDeal(_ context.Context, d domain.Deal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.raceWinner != nil {
		f.deals = append(f.deals, *f.raceWinner)
		f.raceWinner = nil
		return perr.FromPostgres(&pgconn.PgError{Code: "23505", ConstraintName: "deals_source_hash_key"}, "insert deal")
	}
	if f.insertErr != nil {
		return f.insertErr
	}
	f.deals = append(f.deals, d)
	return nil
}

func (f *fakeRepo) TouchUpdatedAt(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.deals {
		if f.deals[i].ID == id {
			f.deals[i].UpdatedAt = at
			f.touched[id] = at
			return nil
		}
	}
	return perr.NotFoundf("deal %s not found", id)
}

func (f *fakeRepo) InsertEvent(_ context.Context, ev triage.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.eventErr != nil {
		return f.eventErr
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (domain.Deal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.deals {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Deal{}, perr.NotFoundf("deal %s not found", id)
}

func (f *fakeRepo) Events(_ context.Context, id string) ([]triage.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []triage.Event{}
	for _, ev := range f.events {
		if ev.DealID == id {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeRepo) List(_ context.Context, lf domain.ListFilter) ([]domain.Deal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Deal{}
	for _, d := range f.deals {
		if lf.Status == "" || d.Status == lf.Status {
			out = append(out, d)
		}
	}
	if lf.Offset >= len(out) {
		return []domain.Deal{}, nil
	}
	out = out[lf.Offset:]
	if len(out) > lf.Limit {
		out = out[:lf.Limit]
	}
	return out, nil
}

func (f *fakeRepo) Count(ctx context.Context, status triage.Status) (int, error) {
	ds, err := f.List(ctx, domain.ListFilter{Status: status, Limit: 1 << 20})
	return len(ds), err
}

func (f *fakeRepo) eventTypes() []triage.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]triage.EventType, len(f.events))
	for i, ev := range f.events {
		out[i] = ev.Type
	}
	return out
}

func (f *fakeRepo) event(t triage.EventType) (triage.Event, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.events {
		if ev.Type == t {
			return ev, true
		}
	}
	return triage.Event{}, false
}

// fakeDB is a TxRunner whose Tx just runs fn
type fakeDB struct{ txs int }

func (d *fakeDB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (d *fakeDB) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (d *fakeDB) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (d *fakeDB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	d.txs++
	return fn(d)
}

// fakeGen returns a canned analysis document
type fakeGen struct {
	out   string
	err   error
	calls int
}

func (g *fakeGen) Generate(context.Context, triage.Submission) ([]byte, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return []byte(g.out), nil
}

// fakeNotifier records messages
type fakeNotifier struct {
	msgs []string
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, text string) error {
	n.msgs = append(n.msgs, text)
	return n.err
}

func memoJSON(score any, reasoning string) string {
	s := fmt.Sprint(score)
	if str, ok := score.(string); ok {
		s = fmt.Sprintf("%q", str)
	}
	return fmt.Sprintf(`{
		"fit_score": %s,
		"executive_summary": "Sharp team in a big market.",
		"strengths": ["team"],
		"risks": [],
		"diligence_questions": ["churn?"],
		"fit_reasoning": %q
	}`, s, reasoning)
}

func rawSubmission() map[string]any {
	return map[string]any{
		"company_name": "Acme Analytics",
		"website":      "https://www.acme.io/",
		"sector":       "B2B SaaS",
		"stage":        "Seed",
		"geography":    "Brazil",
		"pitch":        "Revenue intelligence for mid-market finance teams.",
	}
}

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type harness struct {
	svc   *Svc
	repo  *fakeRepo
	db    *fakeDB
	gen   *fakeGen
	notes *fakeNotifier
}

func newHarness(gen *fakeGen, mutate ...func(*Options)) harness {
	fr := newFakeRepo()
	db := &fakeDB{}
	notes := &fakeNotifier{}
	ids := 0
	opt := Options{
		Config:    triage.DefaultConfig(),
		Generator: gen,
		Notifier:  notes,
		Now:       func() time.Time { return fixedNow },
		NewID: func() string {
			ids++
			return fmt.Sprintf("00000000-0000-4000-8000-%012d", ids)
		},
	}
	for _, m := range mutate {
		m(&opt)
	}
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return fr })
	return harness{svc: New(db, binder, opt), repo: fr, db: db, gen: gen, notes: notes}
}

var errBoom = errors.New("boom")
