package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler is the function shape routes take
type Handler = func(http.ResponseWriter, *http.Request)

// Router is the routing surface modules mount on
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Handle(path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Route(pattern string, fn func(Router))
	Mux() http.Handler
}

// AdaptChi exposes a chi router, root or sub, as a Router
func AdaptChi(r chi.Router) Router { return chiRouter{r} }

type chiRouter struct{ r chi.Router }

func (c chiRouter) Get(p string, h Handler)  { c.r.Get(p, h) }
func (c chiRouter) Post(p string, h Handler) { c.r.Post(p, h) }

func (c chiRouter) Handle(p string, h http.Handler)           { c.r.Handle(p, h) }
func (c chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.r.Use(mw...) }

func (c chiRouter) Route(pattern string, fn func(Router)) {
	c.r.Route(pattern, func(sub chi.Router) { fn(chiRouter{sub}) })
}

func (c chiRouter) Mux() http.Handler { return c.r }
