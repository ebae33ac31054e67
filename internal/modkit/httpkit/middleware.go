package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/net/middleware"
)

// CommonStack is the middleware every versioned API scope runs behind, outermost first
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.AccessLog(2 * time.Second),
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		// outlasts the analysis generator's own 60s default deadline
		middleware.Timeout(90 * time.Second),
	}
}

// RootStack runs on the root mux ahead of routing
func RootStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.Heartbeat("/health"),
	}
}
