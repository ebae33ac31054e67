// Package bind reads request bodies into values handlers can work with
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
)

// DefaultMaxBytes caps a request body
const DefaultMaxBytes int64 = 1 << 20

// ParseObject decodes a JSON object body into an untyped map
// Numbers stay json.Number so callers can tell integers from fractions
func ParseObject(r *http.Request) (map[string]any, error) {
	return ParseObjectN(r, DefaultMaxBytes)
}

// ParseObjectN is ParseObject with an explicit body cap; max <= 0 means unbounded
func ParseObjectN(r *http.Request, max int64) (map[string]any, error) {
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("close request body")
		}
	}()

	var body io.Reader = r.Body
	if max > 0 {
		// one extra byte tells an exact fit from an overflow
		body = io.LimitReader(r.Body, max+1)
	}
	cr := &countingReader{r: body}

	dec := json.NewDecoder(cr)
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return nil, perr.JSONErrf("empty body")
		case max > 0 && cr.n > max:
			return nil, perr.JSONErrf("body exceeds %d bytes", max)
		}
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) {
			return nil, perr.JSONErrf("expected a JSON object, got %s", ute.Value)
		}
		return nil, perr.JSONErrf("invalid JSON: %v", err)
	}
	if obj == nil {
		return nil, perr.JSONErrf("expected a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if max > 0 && cr.n > max {
			return nil, perr.JSONErrf("body exceeds %d bytes", max)
		}
		return nil, perr.JSONErrf("unexpected trailing data")
	}
	return obj, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
