// Package errors is the project error type: a stable machine code, a message safe to show a client,
// the offending input fields and an optional wrapped cause
//
// Import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine-facing classification carried on the wire
type ErrorCode uint16

// Values are part of the API; append only
const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	// ErrorCodeUnavailable means a dependency was down and a retry may succeed
	ErrorCodeUnavailable
	ErrorCodeTooManyRequests
	// ErrorCodeInvalidArgument is a well-formed request with an unusable parameter
	ErrorCodeInvalidArgument
	// ErrorCodeValidation is a body that failed intake checks
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDuplicateKey
	ErrorCodeDB
	// ErrorCodeUpstream is a collaborator (model provider, webhook) answering badly
	ErrorCodeUpstream
)

var statusByCode = map[ErrorCode]int{
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
	ErrorCodeTooManyRequests: http.StatusTooManyRequests,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeNotFound:        http.StatusNotFound,
	ErrorCodeDuplicateKey:    http.StatusConflict,
	ErrorCodeUpstream:        http.StatusBadGateway,
}

// Status is the http status for c; anything unmapped is a 500
func (c ErrorCode) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ErrNotFound is returned by single-row reads that matched nothing
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the structured error
type Error struct {
	code   ErrorCode
	msg    string
	fields []string
	orig   error
}

// Wire is what clients see
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Fields  []string  `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.orig }

// Code returns the machine code
func (e *Error) Code() ErrorCode { return e.code }

// Fields returns the offending input fields, in the order they were reported
func (e *Error) Fields() []string { return e.fields }

// WireFrom renders any error for a client; foreign errors become Unknown with their text
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	e, ok := As(err)
	if !ok {
		return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
	}
	w := Wire{Code: e.code, Message: e.msg, Fields: e.fields}
	if len(e.fields) > 0 {
		w.Field = e.fields[0]
	}
	return w
}

// As finds the first *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Root returns the innermost cause
func Root(err error) error {
	for err != nil {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}

// CodeOf is the code of the first *Error in the chain, Unknown if there is none
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether CodeOf(err) is code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error to a status
func HTTPStatus(err error) int { return CodeOf(err).Status() }

// WithFields returns a copy of err's *Error naming the offending fields
// Errors that aren't ours pass through untouched
func WithFields(err error, fields ...string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.fields = append([]string(nil), fields...)
	return &c
}

// WithField is WithFields for one field
func WithField(err error, field string) error { return WithFields(err, field) }

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap classifies orig; msg is what the client sees, orig only shows up in logs
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

func NotFoundf(format string, a ...any) error    { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error  { return Newf(ErrorCodeInvalidArgument, format, a...) }
func JSONErrf(format string, a ...any) error     { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error    { return Newf(ErrorCodePanic, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }
func Upstreamf(format string, a ...any) error    { return Newf(ErrorCodeUpstream, format, a...) }
