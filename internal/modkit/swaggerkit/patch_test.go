package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	phttp "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/net/http"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/testkit"
)

const swagger2 = `{
	"swagger": "2.0",
	"info": {"title": "Deal Flow API"},
	"paths": {
		"/deals": {
			"post": {"responses": {"201": {"description": "created"}, "400": {"description": "custom"}}},
			"get": {}
		}
	}
}`

func TestPatch(t *testing.T) {
	var spec map[string]any
	require.NoError(t, json.Unmarshal([]byte(swagger2), &spec))

	patch(spec, "/api/v1", "(staging)")

	assert.Equal(t, "3.0.3", spec["openapi"])
	assert.NotContains(t, spec, "swagger")
	assert.Equal(t, []any{map[string]any{"url": "/api/v1"}}, spec["servers"])
	assert.Equal(t, "Deal Flow API (staging)", spec["info"].(map[string]any)["title"])
	assert.Contains(t, spec["components"].(map[string]any)["schemas"], "ErrorEnvelope")

	deals := spec["paths"].(map[string]any)["/deals"].(map[string]any)
	post := deals["post"].(map[string]any)["responses"].(map[string]any)
	assert.Equal(t, map[string]any{"description": "custom"}, post["400"], "existing responses are kept")
	assert.Contains(t, post, "500")

	get := deals["get"].(map[string]any)["responses"].(map[string]any)
	assert.Contains(t, get, "400")
	assert.Contains(t, get, "500")
}

func TestPatch_Downgrades31(t *testing.T) {
	spec := map[string]any{"openapi": "3.1.0", "servers": []any{"x"}}
	patch(spec, "/api/v1", "")
	assert.Equal(t, "3.0.3", spec["openapi"])
	assert.Equal(t, []any{"x"}, spec["servers"])
}

func TestMount(t *testing.T) {
	testkit.Swap(t, &docReader, func() string { return swagger2 })

	m := chi.NewRouter()
	Mount(phttp.AdaptChi(m), true)

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var spec map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Equal(t, "3.0.3", spec["openapi"])

	rec = httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
}

func TestMount_BadDocument(t *testing.T) {
	testkit.Swap(t, &docReader, func() string { return "{" })

	m := chi.NewRouter()
	Mount(phttp.AdaptChi(m), true)
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMount_Disabled(t *testing.T) {
	m := chi.NewRouter()
	Mount(phttp.AdaptChi(m), false)
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocReader_RendersRegisteredDocument(t *testing.T) {
	var spec map[string]any
	require.NoError(t, json.Unmarshal([]byte(docReader()), &spec))
	assert.Equal(t, "Deal Flow API", spec["info"].(map[string]any)["title"])
	assert.Contains(t, spec["paths"], "/deals")
	assert.Contains(t, spec["paths"], "/meta/thesis")
}
