// Package http provides http transport for deals
package http

import (
	stdhttp "net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/httpkit"
	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/net/http/bind"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/domain"
	svc "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/service"
)

// Register mounts deal endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	r.Post("/", httpkit.Handle(h.submit))
	r.Post("/assess", httpkit.Handle(h.assess))
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.Get(r, "/{id}/events", h.events)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /deals Deals dealsSubmit
// @Summary Submit a deal for triage
// @Description 201 for a newly triaged deal, 200 for replay, duplicate and schema_error outcomes
// @Tags Deals
// @Accept json
// @Produce json
// @Param payload body object true "Submission"
// @Success 201 {object} domain.Result "created"
// @Success 200 {object} domain.Result "replay, duplicate or schema_error"
// @Failure 400 {object} httpkit.Envelope "invalid submission"
// @Failure 503 {object} httpkit.Envelope "collaborator unavailable"
// @Router /deals [post]
func (h *handlers) submit(r *stdhttp.Request) httpkit.Response {
	raw, err := bind.ParseObject(r)
	if err != nil {
		return httpkit.Error(err)
	}
	res, err := h.svc.Submit(r.Context(), raw)
	if err != nil {
		return httpkit.Error(err)
	}
	if res.Outcome == triage.OutcomeSuccess {
		return httpkit.Created(res)
	}
	return httpkit.OK(res)
}

// swagger:route POST /deals/assess Deals dealsAssess
// @Summary Dry run the triage stages against a supplied memo
// @Tags Deals
// @Accept json
// @Produce json
// @Param payload body domain.AssessInput true "Submission and memo"
// @Success 200 {object} domain.AssessOutput "ok"
// @Failure 400 {object} httpkit.Envelope "invalid submission or memo"
// @Router /deals/assess [post]
func (h *handlers) assess(r *stdhttp.Request) httpkit.Response {
	body, err := bind.ParseObject(r)
	if err != nil {
		return httpkit.Error(err)
	}
	sub, ok := body["submission"].(map[string]any)
	if !ok {
		return httpkit.Error(perr.WithField(perr.Newf(perr.ErrorCodeValidation, "submission must be an object"), "submission"))
	}
	out, err := h.svc.Assess(r.Context(), domain.AssessInput{Submission: sub, Memo: body["memo"]})
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.OK(out)
}

// swagger:route GET /deals Deals dealsList
// @Summary Recent deals
// @Tags Deals
// @Produce json
// @Param status query string false "Qualified, Review, Pass or LLM_Error"
// @Param limit query int false "page size" default(50)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} domain.ListOutput "ok"
// @Router /deals [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), "limit")
	if err != nil {
		return nil, err
	}
	offset, err := intParam(q.Get("offset"), "offset")
	if err != nil {
		return nil, err
	}
	return h.svc.List(r.Context(), domain.ListFilter{
		Status: triage.Status(strings.TrimSpace(q.Get("status"))),
		Limit:  limit,
		Offset: offset,
	})
}

// swagger:route GET /deals/{id} Deals dealsGet
// @Summary One deal
// @Tags Deals
// @Produce json
// @Param id path string true "deal id"
// @Success 200 {object} domain.Deal "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /deals/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), chi.URLParam(r, "id"))
}

// swagger:route GET /deals/{id}/events Deals dealsEvents
// @Summary Audit trail of a deal
// @Tags Deals
// @Produce json
// @Param id path string true "deal id"
// @Success 200 {array} triage.Event "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /deals/{id}/events [get]
func (h *handlers) events(r *stdhttp.Request) (any, error) {
	return h.svc.Events(r.Context(), chi.URLParam(r, "id"))
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, perr.WithField(perr.InvalidArgf("%s must be a non-negative integer", name), name)
	}
	return n, nil
}
