// Package httpkit is what modules import for routing and responses
// so they never reach into platform/net/http directly
package httpkit

import (
	"net/http"
	"strings"

	phttp "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/net/http"
)

type (
	Envelope = phttp.Envelope
	Response = phttp.Response
	Handler  = phttp.Handler
	Router   = phttp.Router
)

func OK(data any) Response      { return phttp.OK(data) }
func Created(data any) Response { return phttp.Created(data) }
func Error(err error) Response  { return phttp.Error(err) }

// Handle adapts a return-style handler
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Get mounts a read handler; its result is wrapped in a 200 envelope
func Get(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, phttp.Call(fn))
}

// MountAPI scopes mount under /api/{version} behind mw
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/"+strings.Trim(version, "/"), func(api Router) {
		api.Use(mw...)
		mount(api)
	})
}

// MountAPIV1 is MountAPI for v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
