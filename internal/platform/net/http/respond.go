// Package http writes the JSON envelope every endpoint answers with and adapts chi to the Router seam
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
	pnet "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/net"
)

// Envelope is the response body for success and failure alike
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Fields     []string       `json:"fields,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// WriteJSON encodes v with status
func WriteJSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to its status and writes the error envelope
func WriteError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status := perr.HTTPStatus(err)
	wire := perr.WireFrom(err)
	WriteJSON(w, status, Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		Code:       wire.Code,
		Error:      wire.Message,
		Fields:     wire.Fields,
		RequestID:  pnet.RequestID(r.Context()),
	})
}

// Response is what return-style handlers produce
// A Body that is an error takes the error path whatever Status says
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// Handle adapts a return-style handler
func Handle(h func(r *stdhttp.Request) Response) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) { h(r).write(w, r) }
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	if err, ok := resp.Body.(error); ok && err != nil {
		WriteError(w, r, err)
		return
	}

	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	WriteJSON(w, status, Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  pnet.RequestID(r.Context()),
		Data:       resp.Body,
	})
}

func OK(data any) Response      { return Response{Status: stdhttp.StatusOK, Body: data} }
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }
func NoContent() Response       { return Response{Status: stdhttp.StatusNoContent} }

// Error answers with err's mapped status
func Error(err error) Response { return Response{Body: err} }

// Call adapts a handler returning (data, error); a returned Response is written as is
func Call(fn func(*stdhttp.Request) (any, error)) Handler {
	return Handle(func(r *stdhttp.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}
