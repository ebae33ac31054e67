package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/config"
)

const (
	oasVersion  = "3.0.3"
	envelopeRef = "#/components/schemas/ErrorEnvelope"
)

// serveDocJSON serves the generated document patched for swagger ui
func serveDocJSON() http.HandlerFunc {
	suffix := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", "")
	return func(w http.ResponseWriter, _ *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "swagger document is not valid JSON", http.StatusInternalServerError)
			return
		}
		patch(spec, "/api/v1", suffix)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// patch pins the document to OAS 3.0.3 (the ui cannot render 3.1), adds a server,
// and gives every operation the 400 and 500 envelopes the runtime can answer with
func patch(spec map[string]any, server, titleSuffix string) {
	delete(spec, "swagger")
	if v, _ := spec["openapi"].(string); !strings.HasPrefix(v, "3.0") {
		spec["openapi"] = oasVersion
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": server}}
	}
	if titleSuffix != "" {
		if info, ok := spec["info"].(map[string]any); ok {
			if title, ok := info["title"].(string); ok {
				info["title"] = title + " " + titleSuffix
			}
		}
	}

	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorEnvelope"]; !ok {
		schemas["ErrorEnvelope"] = envelopeSchema()
	}

	defaults := map[string]any{
		"400": errorResponse("Bad Request", 400, 5, "submission is missing required fields", "sector", "pitch"),
		"500": errorResponse("Internal Server Error", 500, 1, "panic recovered"),
	}
	paths, _ := spec["paths"].(map[string]any)
	for _, item := range paths {
		ops, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, op := range ops {
			o, ok := op.(map[string]any)
			if !ok {
				continue
			}
			resps := child(o, "responses")
			for code, resp := range defaults {
				if _, ok := resps[code]; !ok {
					resps[code] = resp
				}
			}
		}
	}
}

func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

func envelopeSchema() map[string]any {
	prop := func(typ string) map[string]any { return map[string]any{"type": typ} }
	return map[string]any{
		"type":        "object",
		"description": "Error envelope written by every endpoint",
		"required":    []any{"status_code", "status"},
		"properties": map[string]any{
			"status_code": prop("integer"),
			"status":      prop("string"),
			"code":        prop("integer"),
			"error":       prop("string"),
			"request_id":  prop("string"),
			"fields":      map[string]any{"type": "array", "items": prop("string")},
		},
	}
}

func errorResponse(status string, statusCode, code int, msg string, fields ...string) map[string]any {
	example := map[string]any{
		"status_code": statusCode,
		"status":      status,
		"code":        code,
		"error":       msg,
		"request_id":  "dealflow/abc-000001",
	}
	if len(fields) > 0 {
		fs := make([]any, len(fields))
		for i, f := range fields {
			fs[i] = f
		}
		example["fields"] = fs
	}
	return map[string]any{
		"description": status,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": envelopeRef},
				"example": example,
			},
		},
	}
}
