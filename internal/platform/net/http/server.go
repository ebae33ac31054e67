package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/config"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
)

// Server owns the root chi mux and the listener
type Server struct {
	mux         *chi.Mux
	srv         *stdhttp.Server
	drainWithin time.Duration
}

// NewServer reads PORT, READ_HEADER_TIMEOUT and SHUTDOWN_TIMEOUT under cfg's prefix
// A bare port number listens on every interface
func NewServer(cfg config.Conf) *Server {
	addr := cfg.MayString("PORT", "4000")
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	m := chi.NewRouter()
	return &Server{
		mux: m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: cfg.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		},
		drainWithin: cfg.MayDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// Router is the root of the route tree
func (s *Server) Router() Router { return AdaptChi(s.mux) }

func (s *Server) Addr() string { return s.srv.Addr }

// Run serves until ctx is done, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.srv.Addr).Msg("http listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("within", s.drainWithin).Msg("http draining")
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.drainWithin)
	defer cancel()
	return s.srv.Shutdown(sctx)
}
