package triage

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSubmission_OK(t *testing.T) {
	raw := rawSubmission()
	raw["force_fit_score"] = num("85")
	raw["utm_source"] = "newsletter" // ignored

	s, err := ParseSubmission(raw, DefaultConfig().Scores)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CompanyName != "Acme Analytics" || s.Pitch == "" {
		t.Fatalf("fields not copied: %+v", s)
	}
	if s.ForceFitScore == nil || *s.ForceFitScore != 85 {
		t.Fatalf("force_fit_score = %v, want 85", s.ForceFitScore)
	}
}

func TestParseSubmission_NullForceScoreIsAbsent(t *testing.T) {
	raw := rawSubmission()
	raw["force_fit_score"] = nil
	s, err := ParseSubmission(raw, DefaultConfig().Scores)
	if err != nil || s.ForceFitScore != nil {
		t.Fatalf("expected absent override, got %v (%v)", s.ForceFitScore, err)
	}
}

func TestParseSubmission_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		want   []Violation
	}{
		{
			name:   "missing field",
			mutate: func(m map[string]any) { delete(m, "sector") },
			want:   []Violation{{Field: "sector", Kind: KindMissing}},
		},
		{
			name:   "blank after trim",
			mutate: func(m map[string]any) { m["pitch"] = " \t\n " },
			want:   []Violation{{Field: "pitch", Kind: KindBlank}},
		},
		{
			name:   "zero width only",
			mutate: func(m map[string]any) { m["company_name"] = "\u200b" },
			want:   []Violation{{Field: "company_name", Kind: KindBlank}},
		},
		{
			name: "invisible runes only",
			mutate: func(m map[string]any) {
				m["sector"] = " \ufeff\u200d "
				m["stage"] = "\x00\x7f"
			},
			want: []Violation{
				{Field: "sector", Kind: KindBlank},
				{Field: "stage", Kind: KindBlank},
			},
		},
		{
			name:   "wrong type",
			mutate: func(m map[string]any) { m["stage"] = num("3") },
			want:   []Violation{{Field: "stage", Kind: KindWrongType}},
		},
		{
			name: "every offender reported in field order",
			mutate: func(m map[string]any) {
				delete(m, "pitch")
				m["company_name"] = ""
				m["geography"] = false
			},
			want: []Violation{
				{Field: "company_name", Kind: KindBlank},
				{Field: "geography", Kind: KindWrongType},
				{Field: "pitch", Kind: KindMissing},
			},
		},
		{
			name:   "force score out of range",
			mutate: func(m map[string]any) { m["force_fit_score"] = num("101") },
			want:   []Violation{{Field: "force_fit_score", Kind: KindOutOfRange}},
		},
		{
			name:   "force score negative",
			mutate: func(m map[string]any) { m["force_fit_score"] = -1.0 },
			want:   []Violation{{Field: "force_fit_score", Kind: KindOutOfRange}},
		},
		{
			name:   "force score fraction",
			mutate: func(m map[string]any) { m["force_fit_score"] = num("85.5") },
			want:   []Violation{{Field: "force_fit_score", Kind: KindWrongType}},
		},
		{
			name:   "force score numeric string",
			mutate: func(m map[string]any) { m["force_fit_score"] = "85" },
			want:   []Violation{{Field: "force_fit_score", Kind: KindWrongType}},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			raw := rawSubmission()
			tc.mutate(raw)
			_, err := ParseSubmission(raw, DefaultConfig().Scores)
			var iv *IntakeValidationError
			if !errors.As(err, &iv) {
				t.Fatalf("expected IntakeValidationError, got %v", err)
			}
			got := make([]Violation, len(iv.Violations))
			for i, v := range iv.Violations {
				got[i] = Violation{Field: v.Field, Kind: v.Kind}
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("violations = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseSubmission_NilObject(t *testing.T) {
	_, err := ParseSubmission(nil, DefaultConfig().Scores)
	var iv *IntakeValidationError
	if !errors.As(err, &iv) {
		t.Fatalf("expected IntakeValidationError, got %v", err)
	}
	want := FieldOrder[:]
	if !reflect.DeepEqual(iv.Fields(), want) {
		t.Fatalf("Fields() = %v, want %v", iv.Fields(), want)
	}
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		kind Kind
	}{
		{num("7"), 7, ""},
		{num("7.0"), 7, ""},
		{num("1e2"), 100, ""},
		{7.0, 7, ""},
		{7, 7, ""},
		{7.25, 0, KindWrongType},
		{"7", 0, KindWrongType},
		{true, 0, KindWrongType},
		{num("99999999999"), 0, KindOutOfRange},
	}
	for _, tc := range tests {
		got, kind := asInt(tc.in)
		if got != tc.want || kind != tc.kind {
			t.Fatalf("asInt(%#v) = %d,%q want %d,%q", tc.in, got, kind, tc.want, tc.kind)
		}
	}
}
