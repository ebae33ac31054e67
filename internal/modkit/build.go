package modkit

import (
	"net/http"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/httpkit"
)

// Base is embedded by modules for naming and mounting
type Base struct {
	name      string
	prefix    string
	mw        []func(http.Handler) http.Handler
	injected  any
	subrouter func(httpkit.Router) httpkit.Router
	extra     []func(httpkit.Router)
	routes    func(httpkit.Router)
}

// Build applies opts in order, so a module's defaults go first and caller options override them
func Build(opts ...Option) Base {
	var b Base
	for _, o := range opts {
		o(&b)
	}
	return b
}

func (b *Base) Name() string   { return b.name }
func (b *Base) Prefix() string { return b.prefix }

// Injected is whatever WithPorts supplied, nil when nothing was
func (b *Base) Injected() any { return b.injected }

// Routes sets the module's own endpoints
func (b *Base) Routes(fn func(httpkit.Router)) { b.routes = fn }

// MountRoutes scopes the module under its prefix and middleware,
// then registers its own routes followed by any WithRegister extras
func (b *Base) MountRoutes(r httpkit.Router) {
	r.Route(b.prefix, func(sub httpkit.Router) {
		sub.Use(b.mw...)
		if b.subrouter != nil {
			sub = b.subrouter(sub)
		}
		if b.routes != nil {
			b.routes(sub)
		}
		for _, fn := range b.extra {
			fn(sub)
		}
	})
}
