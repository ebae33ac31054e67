// Package triage holds the deterministic deal triage stages
// Each stage is a pure function over in-memory values; collaborators (lookup, model, storage) live outside
package triage

// Field names in canonical order
const (
	FieldCompanyName = "company_name"
	FieldWebsite     = "website"
	FieldSector      = "sector"
	FieldStage       = "stage"
	FieldGeography   = "geography"
	FieldPitch       = "pitch"
	FieldForceScore  = "force_fit_score"
)

// FieldOrder is the fixed order used for validation reports and the canonical form
var FieldOrder = [...]string{
	FieldCompanyName,
	FieldWebsite,
	FieldSector,
	FieldStage,
	FieldGeography,
	FieldPitch,
}

// Submission is a validated inbound deal
type Submission struct {
	CompanyName   string `json:"company_name" validate:"nonblank"`
	Website       string `json:"website" validate:"nonblank"`
	Sector        string `json:"sector" validate:"nonblank"`
	Stage         string `json:"stage" validate:"nonblank"`
	Geography     string `json:"geography" validate:"nonblank"`
	Pitch         string `json:"pitch" validate:"nonblank"`
	ForceFitScore *int   `json:"force_fit_score,omitempty"`
}

// values returns the textual fields in FieldOrder
func (s Submission) values() [len(FieldOrder)]string {
	return [...]string{s.CompanyName, s.Website, s.Sector, s.Stage, s.Geography, s.Pitch}
}

// Status is the persisted deal status
type Status string

const (
	StatusQualified Status = "Qualified"
	StatusReview    Status = "Review"
	StatusPass      Status = "Pass"
	StatusLLMError  Status = "LLM_Error"
)

// Statuses lists every status value
var Statuses = []Status{StatusQualified, StatusReview, StatusPass, StatusLLMError}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Disposition is the thesis classification of a scored deal
type Disposition string

const (
	Qualified Disposition = "Qualified"
	Review    Disposition = "Review"
	Pass      Disposition = "Pass"
)

// Status maps a disposition onto the deal status enum
func (d Disposition) Status() Status { return Status(d) }

// Outcome tags how a pipeline step ended
type Outcome uint8

const (
	// OutcomeContinue means the next stage should run
	OutcomeContinue Outcome = iota
	// OutcomeReplay is a terminal exact resubmission
	OutcomeReplay
	// OutcomeDuplicate is a terminal resubmission for a known website
	OutcomeDuplicate
	// OutcomeSchemaError is a terminal malformed analysis document
	OutcomeSchemaError
	// OutcomeSuccess is a terminal newly triaged deal
	OutcomeSuccess
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeReplay:
		return "replay"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeSchemaError:
		return "schema_error"
	case OutcomeSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalText renders the outcome tag on the wire
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Terminal reports whether no further stage runs
func (o Outcome) Terminal() bool { return o != OutcomeContinue }

// DealRef is the slice of a persisted deal the resolver needs
type DealRef struct {
	ID         string `json:"id"`
	SourceHash string `json:"source_hash"`
	WebsiteKey string `json:"website_key"`
	Status     Status `json:"status"`
}
