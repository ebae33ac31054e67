package middleware_test

import (
	"bytes"
	"compress/flate"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/net/middleware"
	phttp "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/net/http"
)

func run(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAccessLog_PassesThrough(t *testing.T) {
	h := middleware.AccessLog(time.Nanosecond)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("deal"))
	}))
	rec := run(h, httptest.NewRequest(http.MethodPost, "/deals", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "deal", rec.Body.String())
}

func TestRecoverJSON(t *testing.T) {
	h := middleware.RequestID()(middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil map write")
	})))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc-1")
	rec := run(h, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "abc-1", rec.Header().Get("X-Request-ID"))

	var env phttp.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, perr.ErrorCodePanic, env.Code)
	assert.Equal(t, "panic recovered", env.Error)
	assert.Equal(t, "abc-1", env.RequestID)
}

func TestRecoverJSON_AbortHandlerPropagates(t *testing.T) {
	h := middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		run(h, httptest.NewRequest(http.MethodGet, "/x", nil))
	})
}

func TestCompress(t *testing.T) {
	body := bytes.Repeat([]byte(`{"fit_score":80}`), 200)
	h := middleware.Compress(flate.BestSpeed)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := run(h, req)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Less(t, rec.Body.Len(), len(body))
}

func TestCORS_Defaults(t *testing.T) {
	h := middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"https://fund.example"}})(http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodOptions, "/deals", nil)
	req.Header.Set("Origin", "https://fund.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := run(h, req)

	assert.Equal(t, "https://fund.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestThrottle(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	h := middleware.Throttle(1, 0, 10*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(entered)
		<-release
	}))

	done := make(chan struct{})
	go func() {
		run(h, httptest.NewRequest(http.MethodPost, "/deals", nil))
		close(done)
	}()
	<-entered

	rec := run(h, httptest.NewRequest(http.MethodPost, "/deals", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	close(release)
	<-done
}
