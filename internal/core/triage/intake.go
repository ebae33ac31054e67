package triage

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/validate"
)

// ParseSubmission checks a raw submission object and returns the typed value
// Every offending field is reported, in FieldOrder, as one IntakeValidationError
// Unknown keys are ignored
func ParseSubmission(raw map[string]any, scores Bounds) (Submission, error) {
	var (
		sub  Submission
		errs []Violation
	)
	if raw == nil {
		raw = map[string]any{}
	}

	dst := [...]*string{&sub.CompanyName, &sub.Website, &sub.Sector, &sub.Stage, &sub.Geography, &sub.Pitch}
	typed := make(map[string]bool, len(FieldOrder))
	for i, name := range FieldOrder {
		v, ok := raw[name]
		if !ok || v == nil {
			errs = append(errs, Violation{Field: name, Kind: KindMissing})
			continue
		}
		s, ok := v.(string)
		if !ok {
			errs = append(errs, Violation{Field: name, Kind: KindWrongType, Detail: fmt.Sprintf("got %s", jsonKind(v))})
			continue
		}
		*dst[i] = s
		typed[name] = true
	}

	if err := validate.Struct(sub); err != nil {
		if verrs, ok := err.(validate.Errors); ok {
			for _, fe := range verrs {
				// absent and mistyped fields already carry a more precise violation
				if !typed[fe.Field()] {
					continue
				}
				typed[fe.Field()] = false
				errs = append(errs, Violation{Field: fe.Field(), Kind: KindBlank, Detail: validate.Message(fe)})
			}
		} else {
			return Submission{}, fmt.Errorf("validate submission: %w", err)
		}
	}
	// zero width and control runes pass the tag but vanish in the canonical form
	for i, name := range FieldOrder {
		if typed[name] && normalizeText(*dst[i]) == "" {
			errs = append(errs, Violation{Field: name, Kind: KindBlank, Detail: name + " has no visible text"})
		}
	}

	if v, ok := raw[FieldForceScore]; ok && v != nil {
		n, kind := asInt(v)
		switch {
		case kind != "":
			errs = append(errs, Violation{Field: FieldForceScore, Kind: kind, Detail: fmt.Sprintf("got %s", jsonKind(v))})
		case !scores.Contains(n):
			errs = append(errs, Violation{Field: FieldForceScore, Kind: KindOutOfRange, Detail: fmt.Sprintf("%d not in %d..%d", n, scores.Min, scores.Max)})
		default:
			sub.ForceFitScore = &n
		}
	}

	if len(errs) > 0 {
		sortViolations(errs, append(FieldOrder[:], FieldForceScore))
		return Submission{}, &IntakeValidationError{Violations: errs}
	}
	return sub, nil
}

// asInt accepts integral JSON numbers only; strings and fractions are wrong_type
func asInt(v any) (int, Kind) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return clampInt(i)
		}
		f, err := n.Float64()
		if err != nil {
			return 0, KindWrongType
		}
		return fromFloat(f)
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case int:
		return n, ""
	case int64:
		return clampInt(n)
	case int32:
		return int(n), ""
	default:
		return 0, KindWrongType
	}
}

func fromFloat(f float64) (int, Kind) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, KindWrongType
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, KindOutOfRange
	}
	return int(f), ""
}

func clampInt(i int64) (int, Kind) {
	if i > math.MaxInt32 || i < math.MinInt32 {
		return 0, KindOutOfRange
	}
	return int(i), ""
}

// jsonKind names the JSON type of a decoded value
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, float32, int, int64, int32:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
