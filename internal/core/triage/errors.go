package triage

import (
	"fmt"
	"sort"
	"strings"
)

// Kind names the nature of a field violation
type Kind string

const (
	KindMissing    Kind = "missing"
	KindBlank      Kind = "blank"
	KindWrongType  Kind = "wrong_type"
	KindOutOfRange Kind = "out_of_range"
	KindMalformed  Kind = "malformed"
)

// Violation identifies one offending field
// Path is a JSON pointer into the document when it differs from the field, eg /strengths/2
type Violation struct {
	Field  string `json:"field"`
	Kind   Kind   `json:"kind"`
	Path   string `json:"path,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func (v Violation) String() string {
	if v.Path != "" && v.Path != "/"+v.Field {
		return fmt.Sprintf("%s (%s at %s)", v.Field, v.Kind, v.Path)
	}
	return fmt.Sprintf("%s (%s)", v.Field, v.Kind)
}

// IntakeValidationError reports every malformed submission field
type IntakeValidationError struct {
	Violations []Violation
}

func (e *IntakeValidationError) Error() string {
	return "invalid submission: " + joinViolations(e.Violations)
}

// Fields returns the offending field names in report order
func (e *IntakeValidationError) Fields() []string { return fieldsOf(e.Violations) }

// MemoSchemaError reports every violation of the analysis document contract
type MemoSchemaError struct {
	Violations []Violation
}

func (e *MemoSchemaError) Error() string {
	return "memo schema violation: " + joinViolations(e.Violations)
}

// Fields returns the offending field names in report order
func (e *MemoSchemaError) Fields() []string { return fieldsOf(e.Violations) }

func joinViolations(vs []Violation) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func fieldsOf(vs []Violation) []string {
	out := make([]string, 0, len(vs))
	seen := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		if _, ok := seen[v.Field]; ok {
			continue
		}
		seen[v.Field] = struct{}{}
		out = append(out, v.Field)
	}
	return out
}

// sortViolations orders by the given field rank then path, unknown fields last
func sortViolations(vs []Violation, order []string) {
	rank := make(map[string]int, len(order))
	for i, f := range order {
		rank[f] = i
	}
	at := func(f string) int {
		if r, ok := rank[f]; ok {
			return r
		}
		return len(order)
	}
	sort.SliceStable(vs, func(i, j int) bool {
		ri, rj := at(vs[i].Field), at(vs[j].Field)
		if ri != rj {
			return ri < rj
		}
		return vs[i].Path < vs[j].Path
	})
}
