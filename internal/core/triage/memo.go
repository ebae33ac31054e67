package triage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Memo field names in report order
const (
	MemoFitScore           = "fit_score"
	MemoExecutiveSummary   = "executive_summary"
	MemoStrengths          = "strengths"
	MemoRisks              = "risks"
	MemoDiligenceQuestions = "diligence_questions"
	MemoFitReasoning       = "fit_reasoning"

	// memoRoot is the field reported when the document itself is unusable
	memoRoot = "memo"
)

var memoFields = []string{
	MemoFitScore,
	MemoExecutiveSummary,
	MemoStrengths,
	MemoRisks,
	MemoDiligenceQuestions,
	MemoFitReasoning,
}

// Memo is a validated analysis document
type Memo struct {
	FitScore           int      `json:"fit_score"`
	ExecutiveSummary   string   `json:"executive_summary"`
	Strengths          []string `json:"strengths"`
	Risks              []string `json:"risks"`
	DiligenceQuestions []string `json:"diligence_questions"`
	FitReasoning       string   `json:"fit_reasoning"`
}

//go:embed memo.schema.json
var memoSchemaJSON []byte

// compiled schemas keyed by score bounds
var memoSchemas sync.Map

func memoSchema(b Bounds) (*jsonschema.Schema, error) {
	if s, ok := memoSchemas.Load(b); ok {
		return s.(*jsonschema.Schema), nil
	}

	var doc map[string]any
	if err := json.Unmarshal(memoSchemaJSON, &doc); err != nil {
		return nil, fmt.Errorf("memo schema decode: %w", err)
	}
	props, _ := doc["properties"].(map[string]any)
	score, _ := props[MemoFitScore].(map[string]any)
	if score == nil {
		return nil, errors.New("memo schema: fit_score property missing")
	}
	score["minimum"] = b.Min
	score["maximum"] = b.Max
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("memo schema encode: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := fmt.Sprintf("https://dealflow.schemas.local/memo-%d-%d.schema.json", b.Min, b.Max)
	if err := c.AddResource(url, bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("memo schema load failed: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("memo schema compile failed: %w", err)
	}
	s, _ := memoSchemas.LoadOrStore(b, compiled)
	return s.(*jsonschema.Schema), nil
}

// ParseMemo decodes raw generator output and validates it
// Undecodable input is a malformed memo, not a transport error
func ParseMemo(data []byte, scores Bounds) (Memo, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return Memo{}, &MemoSchemaError{Violations: []Violation{{Field: memoRoot, Kind: KindMalformed, Detail: err.Error()}}}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Memo{}, &MemoSchemaError{Violations: []Violation{{Field: memoRoot, Kind: KindMalformed, Detail: "unexpected trailing data"}}}
	}
	return ValidateMemo(doc, scores)
}

// ValidateMemo enforces the memo contract on a decoded document
// Values are taken as they are; a numeric string is a wrong type, never converted
func ValidateMemo(doc any, scores Bounds) (Memo, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return Memo{}, &MemoSchemaError{Violations: []Violation{{Field: memoRoot, Kind: KindWrongType, Detail: "got " + jsonKind(doc)}}}
	}

	var vs []Violation
	for _, f := range memoFields {
		if _, ok := obj[f]; !ok {
			vs = append(vs, Violation{Field: f, Kind: KindMissing})
		}
	}

	schema, err := memoSchema(scores)
	if err != nil {
		return Memo{}, err
	}
	if err := schema.Validate(obj); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return Memo{}, fmt.Errorf("memo schema validate: %w", err)
		}
		vs = append(vs, schemaViolations(ve)...)
	}

	if len(vs) > 0 {
		vs = dedupe(vs)
		sortViolations(vs, memoFields)
		return Memo{}, &MemoSchemaError{Violations: vs}
	}
	return buildMemo(obj)
}

// schemaViolations flattens leaf causes into field violations
// required failures are skipped because missing fields are reported directly
func schemaViolations(ve *jsonschema.ValidationError) []Violation {
	if len(ve.Causes) > 0 {
		var out []Violation
		for _, c := range ve.Causes {
			out = append(out, schemaViolations(c)...)
		}
		return out
	}

	kw := ve.KeywordLocation
	if i := strings.LastIndexByte(kw, '/'); i >= 0 {
		kw = kw[i+1:]
	}
	var kind Kind
	switch kw {
	case "required":
		return nil
	case "type":
		kind = KindWrongType
	case "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum":
		kind = KindOutOfRange
	default:
		kind = KindMalformed
	}

	field := memoRoot
	path := ve.InstanceLocation
	if seg := strings.TrimPrefix(path, "/"); seg != "" {
		field = seg
		if i := strings.IndexByte(seg, '/'); i >= 0 {
			field = seg[:i]
		}
	}
	if path == "/"+field {
		path = ""
	}
	return []Violation{{Field: field, Kind: kind, Path: path, Detail: ve.Message}}
}

func dedupe(vs []Violation) []Violation {
	out := vs[:0]
	seen := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		k := v.Field + "\x00" + string(v.Kind) + "\x00" + v.Path
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// buildMemo assumes obj already passed the schema
func buildMemo(obj map[string]any) (Memo, error) {
	score, kind := asInt(obj[MemoFitScore])
	if kind != "" {
		return Memo{}, &MemoSchemaError{Violations: []Violation{{Field: MemoFitScore, Kind: kind}}}
	}
	m := Memo{
		FitScore:         score,
		ExecutiveSummary: obj[MemoExecutiveSummary].(string),
		FitReasoning:     obj[MemoFitReasoning].(string),
	}
	m.Strengths = stringList(obj[MemoStrengths])
	m.Risks = stringList(obj[MemoRisks])
	m.DiligenceQuestions = stringList(obj[MemoDiligenceQuestions])
	return m, nil
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.(string))
	}
	return out
}
