package modkit

import (
	"net/http"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/httpkit"
)

// Option configures a Base
type Option func(*Base)

func WithName(name string) Option { return func(b *Base) { b.name = name } }

// WithPrefix replaces the mount path, eg "/deals"
func WithPrefix(prefix string) Option { return func(b *Base) { b.prefix = prefix } }

// WithMiddlewares appends module scoped middleware, outermost first
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Base) { b.mw = append(b.mw, mw...) }
}

// WithPorts hands a module something it consumes, typically another module's ports
// The receiving module owns the type and asserts it from Injected
func WithPorts[T any](p T) Option { return func(b *Base) { b.injected = p } }

// WithSubrouter wraps the scoped router before routes are registered
func WithSubrouter(fn func(httpkit.Router) httpkit.Router) Option {
	return func(b *Base) { b.subrouter = fn }
}

// WithRegister adds routes next to the module's own
func WithRegister(fn func(httpkit.Router)) Option {
	return func(b *Base) { b.extra = append(b.extra, fn) }
}
