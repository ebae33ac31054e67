// Package domain holds deal types independent of transport or storage
package domain

import (
	"encoding/json"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
)

// Deal is the persisted aggregate for one processed submission
type Deal struct {
	ID            string `json:"id"              example:"0b6f1f0e-8b3c-4a57-9d3e-6e0f3f6f2a11"`
	CompanyName   string `json:"company_name"    example:"Acme Analytics"`
	Website       string `json:"website"         example:"https://acme.io"`
	WebsiteKey    string `json:"website_key"     example:"acme.io"`
	Sector        string `json:"sector"          example:"B2B SaaS"`
	Stage         string `json:"stage"           example:"Seed"`
	Geography     string `json:"geography"       example:"Brazil"`
	Pitch         string `json:"pitch"`
	ForceFitScore *int   `json:"force_fit_score,omitempty"`

	// NormalizedPayload is the canonical JSON snapshot of the normalized fields
	NormalizedPayload json.RawMessage `json:"normalized_payload" swaggertype:"object"`

	// Memo and FitScore stay nil for LLM_Error deals
	Memo         *triage.Memo  `json:"memo"`
	FitScore     *int          `json:"fit_score"`
	FitReasoning string        `json:"fit_reasoning"`
	Status       triage.Status `json:"status" example:"Qualified"`
	SourceHash   string        `json:"source_hash"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ref is the lookup view of the deal
func (d Deal) Ref() triage.DealRef {
	return triage.DealRef{ID: d.ID, SourceHash: d.SourceHash, WebsiteKey: d.WebsiteKey, Status: d.Status}
}

// NewDeal copies the submission fields into a deal shell
func NewDeal(id string, sub triage.Submission, c triage.Canonical, snapshot []byte, at time.Time) Deal {
	return Deal{
		ID:                id,
		CompanyName:       sub.CompanyName,
		Website:           sub.Website,
		WebsiteKey:        c.WebsiteKey,
		Sector:            sub.Sector,
		Stage:             sub.Stage,
		Geography:         sub.Geography,
		Pitch:             sub.Pitch,
		ForceFitScore:     sub.ForceFitScore,
		NormalizedPayload: snapshot,
		SourceHash:        c.Hash,
		CreatedAt:         at,
		UpdatedAt:         at,
	}
}

// ListFilter narrows deal listings
type ListFilter struct {
	Status triage.Status
	Limit  int
	Offset int
}

// Page limits
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Normalize clamps limit and offset into range
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
