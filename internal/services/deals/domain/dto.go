package domain

import "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"

// Result is the terminal outcome of one submission
type Result struct {
	Outcome    triage.Outcome `json:"outcome"     swaggertype:"string" example:"success"`
	DealID     string         `json:"deal_id"     example:"0b6f1f0e-8b3c-4a57-9d3e-6e0f3f6f2a11"`
	SourceHash string         `json:"source_hash" example:"bb34d52cc97aefb5ce4513edda086520863c513bd8f3bd9165404000347d1081"`
	Status     triage.Status  `json:"status"      example:"Qualified"`
	FitScore   *int           `json:"fit_score,omitempty" example:"78"`

	// Violations is set for schema_error outcomes
	Violations []triage.Violation `json:"violations,omitempty"`
}

// Created reports whether the submission produced a new deal row
func (r Result) Created() bool {
	return r.Outcome == triage.OutcomeSuccess || r.Outcome == triage.OutcomeSchemaError
}

// AssessInput is the dry run body: a submission plus a memo to judge against it
type AssessInput struct {
	Submission map[string]any `json:"submission" swaggertype:"object"`
	Memo       any            `json:"memo"       swaggertype:"object"`
}

// AssessOutput is the dry run result
type AssessOutput struct {
	SourceHash string            `json:"source_hash"`
	WebsiteKey string            `json:"website_key"`
	Assessment triage.Assessment `json:"assessment"`
}

// ListOutput is a page of deals
type ListOutput struct {
	Items  []Deal `json:"items"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}
