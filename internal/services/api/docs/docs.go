// Package docs holds the OpenAPI document served under /api/docs
// Keep it in step with the swagger annotations on the handlers (swag init -g cmd/dealflow-api/main.go --v3.1)
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "servers": [{"url": "{{.BasePath}}"}],
    "tags": [{"name": "Deals"}, {"name": "Meta"}],
    "paths": {
        "/deals": {
            "post": {
                "tags": ["Deals"],
                "summary": "Submit a deal for triage",
                "description": "201 for a newly triaged deal, 200 for replay, duplicate and schema_error outcomes",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Submission"}}}},
                "responses": {
                    "201": {"description": "created", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Result"}}}},
                    "200": {"description": "replay, duplicate or schema_error", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Result"}}}},
                    "503": {"description": "collaborator unavailable"}
                }
            },
            "get": {
                "tags": ["Deals"],
                "summary": "Recent deals",
                "parameters": [
                    {"name": "status", "in": "query", "schema": {"type": "string", "enum": ["Qualified", "Review", "Pass", "LLM_Error"]}},
                    {"name": "limit", "in": "query", "schema": {"type": "integer", "default": 50}},
                    {"name": "offset", "in": "query", "schema": {"type": "integer", "default": 0}}
                ],
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/deals/assess": {
            "post": {
                "tags": ["Deals"],
                "summary": "Dry run the triage stages against a supplied memo",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {
                    "type": "object",
                    "required": ["submission", "memo"],
                    "properties": {"submission": {"$ref": "#/components/schemas/Submission"}, "memo": {"$ref": "#/components/schemas/Memo"}}
                }}}},
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/deals/{id}": {
            "get": {
                "tags": ["Deals"],
                "summary": "One deal",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}],
                "responses": {"200": {"description": "ok"}, "404": {"description": "not found"}}
            }
        },
        "/deals/{id}/events": {
            "get": {
                "tags": ["Deals"],
                "summary": "Audit trail of a deal",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}],
                "responses": {"200": {"description": "ok"}, "404": {"description": "not found"}}
            }
        },
        "/meta/health": {"get": {"tags": ["Meta"], "summary": "Liveness and uptime", "responses": {"200": {"description": "ok"}}}},
        "/meta/ready": {"get": {"tags": ["Meta"], "summary": "Readiness with a ping per backend", "responses": {"200": {"description": "ok"}, "503": {"description": "a backend is down"}}}},
        "/meta/version": {"get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}},
        "/meta/thesis": {"get": {"tags": ["Meta"], "summary": "Active triage configuration and its version", "responses": {"200": {"description": "ok"}, "503": {"description": "deals module not mounted"}}}}
    },
    "components": {
        "schemas": {
            "Submission": {
                "type": "object",
                "required": ["company_name", "website", "sector", "stage", "geography", "pitch"],
                "properties": {
                    "company_name": {"type": "string", "example": "Acme Analytics"},
                    "website": {"type": "string", "example": "https://acme.io"},
                    "sector": {"type": "string", "example": "B2B SaaS"},
                    "stage": {"type": "string", "example": "Seed"},
                    "geography": {"type": "string", "example": "Brazil"},
                    "pitch": {"type": "string"},
                    "force_fit_score": {"type": "integer", "minimum": 0, "maximum": 100}
                }
            },
            "Memo": {
                "type": "object",
                "required": ["fit_score", "executive_summary", "strengths", "risks", "diligence_questions", "fit_reasoning"],
                "properties": {
                    "fit_score": {"type": "integer", "minimum": 0, "maximum": 100},
                    "executive_summary": {"type": "string"},
                    "strengths": {"type": "array", "items": {"type": "string"}},
                    "risks": {"type": "array", "items": {"type": "string"}},
                    "diligence_questions": {"type": "array", "items": {"type": "string"}},
                    "fit_reasoning": {"type": "string"}
                }
            },
            "Result": {
                "type": "object",
                "properties": {
                    "outcome": {"type": "string", "enum": ["success", "replay", "duplicate", "schema_error"]},
                    "deal_id": {"type": "string", "format": "uuid"},
                    "source_hash": {"type": "string"},
                    "status": {"type": "string", "enum": ["Qualified", "Review", "Pass", "LLM_Error"]},
                    "fit_score": {"type": "integer"}
                }
            }
        }
    }
}`

// SwaggerInfo describes the API document
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Deal Flow API",
	Description:      "Inbound deal triage: intake, dedupe, analysis, thesis classification",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
