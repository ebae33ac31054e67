// Package module wires the meta endpoints into the API
package module

import (
	"time"

	modkit "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/httpkit"

	metahttp "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/api/meta/http"
)

// Module serves liveness, readiness, build info and the active thesis
type Module struct {
	modkit.Base
}

// Ports is what meta consumes; inject it with modkit.WithPorts
type Ports struct {
	Thesis metahttp.ThesisSource
}

// New builds the meta module; without a Thesis port /thesis answers 503
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	in, _ := b.Injected().(Ports)
	d := metahttp.Deps{
		ServiceName:  "dealflow-api",
		StartedAt:    time.Now(),
		Probes:       []metahttp.Probe{probe("pg", deps.PG), probe("ch", deps.CH)},
		Thesis:       in.Thesis,
		ProbeTimeout: deps.Cfg.Prefix("META_").MayDuration("PROBE_TIMEOUT", 2*time.Second),
	}

	m := &Module{Base: b}
	m.Routes(func(r httpkit.Router) { metahttp.Register(r, d) })
	return m
}

// probe keeps a backend in the readiness report even when it is off or cannot be pinged
func probe(name string, backend any) metahttp.Probe {
	p, _ := backend.(metahttp.Pinger)
	return metahttp.Probe{Name: name, Pinger: p}
}

// Ports is nil, meta exposes nothing to other modules
func (m *Module) Ports() any { return nil }
