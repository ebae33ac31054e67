// Package http serves liveness, readiness, build and thesis info
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/version"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/httpkit"
	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
)

// Pinger is a backend readiness can probe
type Pinger interface {
	Ping(context.Context) error
}

// ThesisSource exposes the active triage configuration
type ThesisSource interface {
	Config() triage.Config
}

// Probe names a backend; a nil Pinger marks it as not configured
type Probe struct {
	Name   string
	Pinger Pinger
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName  string
	StartedAt    time.Time
	Probes       []Probe
	Thesis       ThesisSource
	ProbeTimeout time.Duration // 2s when zero
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ProbeTimeout <= 0 {
		d.ProbeTimeout = 2 * time.Second
	}
	h := &handlers{Deps: d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/thesis", h.thesis)
}

type handlers struct{ Deps }

// Health reports liveness and uptime
type Health struct {
	OK      bool      `json:"ok" example:"true"`
	Service string    `json:"service" example:"dealflow-api"`
	Started time.Time `json:"started" example:"2026-03-02T10:00:00Z"`
	Uptime  int64     `json:"uptime_seconds" example:"300"`
}

// Check is one backend's readiness
type Check struct {
	Name    string `json:"name" example:"pg"`
	Status  string `json:"status" example:"ok"` // ok, fail or skipped
	Error   string `json:"error,omitempty" example:"connection refused"`
	Latency int64  `json:"latency_ms" example:"3"`
}

// Readiness is ok when every probe passes, degraded when some are skipped, fail otherwise
type Readiness struct {
	Status string  `json:"status" example:"ok"`
	Checks []Check `json:"checks"`
}

// Thesis is the configuration deals are classified against
type Thesis struct {
	Version string            `json:"version" example:"default-v1"`
	Config  triage.Config     `json:"config"`
	Build   version.BuildInfo `json:"build"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Liveness and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} Health "ok"
// @Router /meta/health [get]
func (h *handlers) health(*http.Request) (any, error) {
	return Health{
		OK:      true,
		Service: h.ServiceName,
		Started: h.StartedAt.UTC(),
		Uptime:  int64(time.Since(h.StartedAt) / time.Second),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness with a ping per backend
// @Tags Meta
// @Produce json
// @Success 200 {object} Readiness "ok"
// @Failure 503 {object} Readiness "a backend is down"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.ProbeTimeout)
	defer cancel()

	checks := make([]Check, len(h.Probes))
	var wg sync.WaitGroup
	for i, p := range h.Probes {
		if p.Pinger == nil {
			checks[i] = Check{Name: p.Name, Status: "skipped"}
			continue
		}
		wg.Add(1)
		go func(i int, p Probe) {
			defer wg.Done()
			start := time.Now()
			c := Check{Name: p.Name, Status: "ok"}
			if err := p.Pinger.Ping(ctx); err != nil {
				c.Status, c.Error = "fail", err.Error()
			}
			c.Latency = time.Since(start).Milliseconds()
			checks[i] = c
		}(i, p)
	}
	wg.Wait()

	out := Readiness{Status: "ok", Checks: checks}
	for _, c := range checks {
		switch {
		case c.Status == "fail":
			out.Status = "fail"
		case c.Status == "skipped" && out.Status == "ok":
			out.Status = "degraded"
		}
	}
	if out.Status == "fail" {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(*http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/thesis Meta metaThesis
// @Summary Active triage configuration and its version
// @Tags Meta
// @Produce json
// @Success 200 {object} Thesis "ok"
// @Failure 503 {object} httpkit.Envelope "deals module not mounted"
// @Router /meta/thesis [get]
func (h *handlers) thesis(*http.Request) (any, error) {
	if h.Thesis == nil {
		return nil, perr.Unavailablef("no triage configuration loaded")
	}
	cfg := h.Thesis.Config()
	return Thesis{Version: cfg.Thesis.Version, Config: cfg, Build: version.Info()}, nil
}
