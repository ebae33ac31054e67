package middleware

import (
	"net/http"
	"runtime/debug"

	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
	pnet "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/net"
	phttp "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/net/http"
)

// RecoverJSON turns a panic into the standard 500 envelope and logs the stack
// http.ErrAbortHandler is re-panicked so the server can abort the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if id := pnet.RequestID(r.Context()); id != "" {
				w.Header().Set("X-Request-ID", id)
			}
			phttp.WriteError(w, r, perr.PanicErrf("panic recovered"))
		}()
		next.ServeHTTP(w, r)
	})
}
