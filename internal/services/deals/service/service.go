// Package service contains the deal triage workflow
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/repokit"
	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/domain"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/repo"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Svc implements the service port
type Svc struct {
	Repo     repo.Repo
	binder   repokit.Binder[repo.Repo]
	db       repokit.TxRunner
	cfg      triage.Config
	gen      domain.Generator
	notifier domain.Notifier
	notifyOn map[triage.Disposition]bool
	emit     triage.Emitter
	now      func() time.Time
	newID    func() string
}

// Options control service behavior
type Options struct {
	// Config is the triage configuration; it must pass Validate
	Config triage.Config

	// Generator is required
	Generator domain.Generator

	// Notifier is optional; nil disables notifications
	Notifier domain.Notifier

	// NotifyOn lists the dispositions that are announced, DefaultNotifyOn when nil
	NotifyOn []triage.Disposition

	// Sinks receive audit events in addition to the deal_events table
	Sinks []Sink

	// Now and NewID are clock and id seams, defaulting to time.Now and uuid v4
	Now   func() time.Time
	NewID func() string
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("deals.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("deals.Service requires a non nil Repo binder")
	}
	if opt.Generator == nil {
		panic("deals.Service requires a non nil Generator")
	}
	if err := opt.Config.Validate(); err != nil {
		panic(fmt.Sprintf("deals.Service invalid triage config: %v", err))
	}

	now := opt.Now
	if now == nil {
		now = time.Now
	}
	newID := opt.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	on := opt.NotifyOn
	if on == nil {
		on = DefaultNotifyOn
	}
	notifyOn := make(map[triage.Disposition]bool, len(on))
	for _, d := range on {
		notifyOn[d] = true
	}

	r := binder.Bind(db)
	sinks := append([]Sink{{Name: "pg", EventSink: domain.EventSinkFunc(r.InsertEvent)}}, opt.Sinks...)

	return &Svc{
		Repo:     r,
		binder:   binder,
		db:       db,
		cfg:      opt.Config,
		gen:      opt.Generator,
		notifier: opt.Notifier,
		notifyOn: notifyOn,
		emit:     &fanout{sinks: sinks, now: now},
		now:      now,
		newID:    newID,
	}
}

// Config returns the active triage configuration
func (s *Svc) Config() triage.Config { return s.cfg }

// Submit runs one submission through the triage pipeline
func (s *Svc) Submit(ctx context.Context, raw map[string]any) (domain.Result, error) {
	sub, err := triage.ParseSubmission(raw, s.cfg.Scores)
	if err != nil {
		return domain.Result{}, intakeError(err)
	}

	c := triage.Canonicalize(sub)
	ctx = logger.WithSourceHash(ctx, c.Hash)
	log := logger.C(ctx)
	s.emit.Emit(ctx, triage.NewEvent(triage.EventIntakeReceived, c.Hash, map[string]any{
		"company_name": sub.CompanyName,
		"website_key":  c.WebsiteKey,
		"forced_score": sub.ForceFitScore != nil,
	}))

	dec, err := triage.Resolve(ctx, s.Repo, c)
	if err != nil {
		log.Error().Err(err).Msg("deal lookup failed")
		return domain.Result{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "deal lookup failed")
	}
	switch dec.Outcome {
	case triage.OutcomeReplay:
		log.Debug().Str("deal_id", dec.Existing.ID).Msg("idempotent replay")
		s.emit.Emit(ctx, *dec.Event)
		return existingResult(dec), nil

	case triage.OutcomeDuplicate:
		log.Debug().Str("deal_id", dec.Existing.ID).Msg("duplicate website")
		if err := s.Repo.TouchUpdatedAt(ctx, dec.Existing.ID, s.now().UTC()); err != nil {
			log.Error().Err(err).Str("deal_id", dec.Existing.ID).Msg("duplicate touch failed")
			return domain.Result{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "duplicate refresh failed")
		}
		s.emit.Emit(ctx, *dec.Event)
		return existingResult(dec), nil
	}

	doc, err := s.gen.Generate(ctx, sub)
	if err != nil {
		log.Error().Err(err).Msg("analysis generation failed")
		return domain.Result{}, perr.Wrap(err, collaboratorCode(err), "analysis generation failed")
	}

	snapshot, err := c.Snapshot()
	if err != nil {
		return domain.Result{}, perr.Wrap(err, perr.ErrorCodeUnknown, "normalized payload")
	}
	deal := domain.NewDeal(s.newID(), sub, c, snapshot, s.now().UTC())

	a, err := triage.AssessRaw(sub, c, doc, s.cfg)
	var schemaErr *triage.MemoSchemaError
	switch {
	case errors.As(err, &schemaErr):
		return s.persistSchemaError(ctx, deal, schemaErr)
	case err != nil:
		return domain.Result{}, perr.Wrap(err, perr.ErrorCodeUnknown, "assess deal")
	}

	memo := a.Memo
	score := memo.FitScore
	deal.Memo = &memo
	deal.FitScore = &score
	deal.FitReasoning = a.Reasoning()
	deal.Status = a.Disposition.Status()

	if res, raced, err := s.insert(ctx, deal, c); err != nil || raced {
		return res, err
	}

	for _, ev := range a.Events {
		s.emit.Emit(ctx, ev.ForDeal(deal.ID))
	}
	s.emit.Emit(ctx, s.createdEvent(deal, a))

	log.Debug().
		Str("deal_id", deal.ID).
		Str("disposition", string(a.Disposition)).
		Int("fit_score", score).
		Msg("deal triaged")

	s.announce(ctx, deal, a.Disposition)

	return domain.Result{
		Outcome:    triage.OutcomeSuccess,
		DealID:     deal.ID,
		SourceHash: c.Hash,
		Status:     deal.Status,
		FitScore:   deal.FitScore,
	}, nil
}

// persistSchemaError stores an LLM_Error deal without memo content
func (s *Svc) persistSchemaError(ctx context.Context, deal domain.Deal, se *triage.MemoSchemaError) (domain.Result, error) {
	logger.C(ctx).Warn().
		Strs("fields", se.Fields()).
		Msg("analysis failed memo schema")

	deal.Status = triage.StatusLLMError
	deal.FitReasoning = "analysis rejected: " + se.Error()

	c := triage.Canonical{Hash: deal.SourceHash, WebsiteKey: deal.WebsiteKey}
	if res, raced, err := s.insert(ctx, deal, c); err != nil || raced {
		return res, err
	}

	s.emit.Emit(ctx, triage.NewEvent(triage.EventDealCreated, deal.SourceHash, map[string]any{
		"status":         string(triage.StatusLLMError),
		"company_name":   deal.CompanyName,
		"violations":     violationStrings(se.Violations),
		"thesis_version": s.cfg.Thesis.Version,
	}).ForDeal(deal.ID))

	return domain.Result{
		Outcome:    triage.OutcomeSchemaError,
		DealID:     deal.ID,
		SourceHash: deal.SourceHash,
		Status:     triage.StatusLLMError,
		Violations: se.Violations,
	}, nil
}

// insert persists deal; raced is true when a concurrent submission already holds the hash
// in that case res is the replay outcome for the winning row
func (s *Svc) insert(ctx context.Context, deal domain.Deal, c triage.Canonical) (res domain.Result, raced bool, err error) {
	err = repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		return s.binder.Bind(q).InsertDeal(ctx, deal)
	})
	if err == nil {
		return domain.Result{}, false, nil
	}
	if !perr.IsDuplicateKey(err) {
		logger.C(ctx).Error().Err(err).Msg("deal insert failed")
		return domain.Result{}, false, perr.Wrap(err, perr.ErrorCodeUnavailable, "deal insert failed")
	}

	winner, lerr := s.Repo.BySourceHash(ctx, deal.SourceHash)
	if lerr != nil || winner == nil {
		if lerr == nil {
			lerr = errors.New("conflicting deal vanished")
		}
		logger.C(ctx).Error().Err(lerr).Msg("insert race lookup failed")
		return domain.Result{}, false, perr.Wrap(lerr, perr.ErrorCodeUnavailable, "deal lookup failed")
	}
	logger.C(ctx).Debug().Str("deal_id", winner.ID).Msg("insert lost race, replaying")

	dec := triage.Decide(c, winner, nil)
	s.emit.Emit(ctx, *dec.Event)
	return existingResult(dec), true, nil
}

func (s *Svc) createdEvent(d domain.Deal, a triage.Assessment) triage.Event {
	return triage.NewEvent(triage.EventDealCreated, d.SourceHash, map[string]any{
		"status":         string(d.Status),
		"company_name":   d.CompanyName,
		"fit_score":      a.Memo.FitScore,
		"disposition":    string(a.Disposition),
		"guardrail_fix":  a.Correction != nil,
		"forced_score":   a.Override != nil,
		"thesis_version": s.cfg.Thesis.Version,
	}).ForDeal(d.ID)
}

// Assess is a dry run: intake, canonicalize and the post-analysis stages against a supplied memo
// Nothing is looked up, generated, stored, emitted or announced
func (s *Svc) Assess(_ context.Context, in domain.AssessInput) (domain.AssessOutput, error) {
	sub, err := triage.ParseSubmission(in.Submission, s.cfg.Scores)
	if err != nil {
		return domain.AssessOutput{}, intakeError(err)
	}
	c := triage.Canonicalize(sub)
	a, err := triage.Assess(sub, c, in.Memo, s.cfg)
	if err != nil {
		var se *triage.MemoSchemaError
		if errors.As(err, &se) {
			return domain.AssessOutput{}, perr.WithFields(
				perr.Wrap(err, perr.ErrorCodeValidation, "memo: "+se.Error()), prefixed("memo.", se.Fields())...)
		}
		return domain.AssessOutput{}, perr.Wrap(err, perr.ErrorCodeUnknown, "assess deal")
	}
	return domain.AssessOutput{SourceHash: c.Hash, WebsiteKey: c.WebsiteKey, Assessment: a}, nil
}

// Get returns one deal
func (s *Svc) Get(ctx context.Context, id string) (domain.Deal, error) {
	if err := checkID(id); err != nil {
		return domain.Deal{}, err
	}
	return s.Repo.Get(ctx, id)
}

// Events returns the audit trail of a deal
func (s *Svc) Events(ctx context.Context, id string) ([]triage.Event, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.Repo.Events(ctx, id)
}

// List returns a page of recent deals
func (s *Svc) List(ctx context.Context, f domain.ListFilter) (domain.ListOutput, error) {
	if f.Status != "" && !f.Status.Valid() {
		return domain.ListOutput{}, perr.WithField(perr.InvalidArgf("unknown status %q", f.Status), "status")
	}
	f = f.Normalize()
	items, err := s.Repo.List(ctx, f)
	if err != nil {
		return domain.ListOutput{}, err
	}
	total, err := s.Repo.Count(ctx, f.Status)
	if err != nil {
		return domain.ListOutput{}, err
	}
	return domain.ListOutput{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

// collaboratorCode keeps a code the collaborator already chose, Unavailable otherwise
func collaboratorCode(err error) perr.ErrorCode {
	if c := perr.CodeOf(err); c != perr.ErrorCodeUnknown {
		return c
	}
	return perr.ErrorCodeUnavailable
}

func existingResult(dec triage.Decision) domain.Result {
	return domain.Result{
		Outcome:    dec.Outcome,
		DealID:     dec.Existing.ID,
		SourceHash: dec.Event.SourceHash,
		Status:     dec.Existing.Status,
	}
}

// intakeError maps an intake failure to a 400 carrying every offending field
func intakeError(err error) error {
	var ive *triage.IntakeValidationError
	if errors.As(err, &ive) {
		return perr.WithFields(perr.Wrap(err, perr.ErrorCodeValidation, ive.Error()), ive.Fields()...)
	}
	return perr.Wrap(err, perr.ErrorCodeValidation, "invalid submission")
}

func checkID(id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return perr.WithField(perr.InvalidArgf("invalid deal id %q", id), "id")
	}
	return nil
}

func violationStrings(vs []triage.Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

func prefixed(p string, fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = p + f
	}
	return out
}
