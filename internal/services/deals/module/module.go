// Package module wires deals into the API using modkit
package module

import (
	"context"
	"fmt"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/adapters/analysis"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/adapters/notify"
	modkit "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/httpkit"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/repokit"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/net/middleware"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/domain"
	dhttp "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/http"
	drepo "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/repo"
	dsvc "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/service"
)

// Module is the deals API module
type Module struct {
	modkit.Base
	svc dsvc.Service
}

// Ports are the ports the deals module exposes
type Ports struct {
	Service dsvc.Service
}

// Collaborators may be injected with modkit.WithPorts, mostly for tests
// zero fields are built from config
type Collaborators struct {
	Generator domain.Generator
	Notifier  domain.Notifier
}

// New constructs the deals module
// It panics when the triage configuration is invalid
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	cfg := FromConfig(deps.Cfg)
	log := logger.Named("deals")

	defaults := []modkit.Option{modkit.WithName("deals"), modkit.WithPrefix("/deals")}
	if cfg.MaxInflight > 0 {
		defaults = append(defaults, modkit.WithMiddlewares(
			middleware.Throttle(cfg.MaxInflight, cfg.MaxInflight*4, 10*time.Second)))
	}
	b := modkit.Build(append(defaults, opts...)...)

	tcfg, err := cfg.TriageConfig()
	if err != nil {
		panic(fmt.Sprintf("deals module: %v", err))
	}
	notifyOn, err := dsvc.ParseNotifyOn(cfg.NotifyOn)
	if err != nil {
		panic(fmt.Sprintf("deals module: DEALS_NOTIFY_ON: %v", err))
	}

	var injected Collaborators
	if c, ok := b.Injected().(Collaborators); ok {
		injected = c
	}

	gen := injected.Generator
	if gen == nil {
		cfg.GenAI.Scores = tcfg.Scores
		g, err := analysis.New(context.Background(), cfg.GenAI)
		if err != nil {
			log.Warn().Err(err).Msg("analysis generator disabled; submissions will be unavailable")
			gen = analysis.Disabled{}
		} else {
			gen = g
		}
	}

	notifier := injected.Notifier
	if notifier == nil {
		if wh := notify.New(cfg.Notify); wh.Enabled() {
			notifier = wh
		} else {
			log.Info().Msg("notify webhook not configured")
		}
	}

	var sinks []dsvc.Sink
	if mirror := drepo.NewMirror(deps.CH); mirror != nil {
		sinks = append(sinks, dsvc.Sink{Name: "clickhouse", EventSink: mirror})
	}

	db := deps.PG
	if cfg.TxTimeout > 0 && db != nil {
		db = repokit.WithBeginHooks(db, drepo.StatementTimeout(cfg.TxTimeout))
	}

	svc := dsvc.New(db, drepo.NewPG(), dsvc.Options{
		Config:    tcfg,
		Generator: gen,
		Notifier:  notifier,
		NotifyOn:  notifyOn,
		Sinks:     sinks,
	})

	log.Info().
		Str("thesis_version", tcfg.Thesis.Version).
		Strs("sectors", tcfg.Thesis.Sectors).
		Strs("stages", tcfg.Thesis.Stages).
		Bool("mirror", len(sinks) > 0).
		Dur("tx_timeout", cfg.TxTimeout).
		Int("max_inflight", cfg.MaxInflight).
		Msg("deals module ready")

	m := &Module{Base: b, svc: svc}
	m.Routes(func(r httpkit.Router) { dhttp.Register(r, m.svc) })
	return m
}

// Ports exposes the deal service to sibling modules
func (m *Module) Ports() any { return Ports{Service: m.svc} }
