package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"

	pstrings "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/strings"
)

// RequestID honours an inbound X-Request-ID or mints one
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP trusts X-Forwarded-For and X-Real-IP
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

func RedirectSlashes() func(http.Handler) http.Handler { return chimw.RedirectSlashes }

func StripSlashes() func(http.Handler) http.Handler { return chimw.StripSlashes }

// Heartbeat answers GET path with 200 before routing, for load balancers
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// Throttle caps in-flight requests; the rest get 429 after waiting up to wait in a backlog of backlog
func Throttle(limit, backlog int, wait time.Duration) func(http.Handler) http.Handler {
	return chimw.ThrottleBacklog(limit, backlog, wait)
}

// Compress gzips and deflates responses at level, eg flate.BestSpeed
func Compress(level int) func(http.Handler) http.Handler {
	c := chimw.NewCompressor(level)
	return c.Handler
}

// CORSOptions is the part of go-chi/cors we expose
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS fills empty method and header lists with what the deal API accepts
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   pstrings.IfEmpty(o.AllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Content-Type", "X-Request-ID"}),
		ExposedHeaders:   pstrings.IfEmpty(o.ExposedHeaders, []string{"X-Request-ID"}),
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
