// Package middleware holds the http middleware the API mounts, thin over chi where chi has one
package middleware

import (
	"net/http"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
)

// statusWriter remembers what was written through it
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(b)
	sw.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer
func (sw *statusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }

// AccessLog writes one line per request through the request scoped logger
// Requests at or over slow log at warn, 5xx at error; slow 0 never warns
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			elapsed := time.Since(start)

			log := logger.C(r.Context())
			evt := log.Info()
			switch {
			case sw.status >= http.StatusInternalServerError:
				evt = log.Error()
			case slow > 0 && elapsed >= slow:
				evt = log.Warn()
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("elapsed", elapsed).
				Msg("request done")
		})
	}
}
