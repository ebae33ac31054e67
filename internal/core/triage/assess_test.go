package triage

import (
	"errors"
	"strconv"
	"testing"
)

func TestAssess(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name       string
		force      *int
		score      int
		reasoning  string
		wantScore  int
		want       Disposition
		wantEvents []EventType
	}{
		{
			name:      "organic qualified",
			score:     78,
			reasoning: "good fit",
			wantScore: 78,
			want:      Qualified,
		},
		{
			name:       "guardrail lifts into qualification",
			score:      60,
			reasoning:  "This is a very strong team",
			wantScore:  70,
			want:       Qualified,
			wantEvents: []EventType{EventScoreConsistencyFix},
		},
		{
			name:       "override wins over guardrail",
			force:      intp(85),
			score:      40,
			reasoning:  "exceptional",
			wantScore:  85,
			want:       Qualified,
			wantEvents: []EventType{EventForceFitScoreUsed},
		},
		{
			name:       "override can lower a score",
			force:      intp(20),
			score:      90,
			reasoning:  "compelling",
			wantScore:  20,
			want:       Pass,
			wantEvents: []EventType{EventForceFitScoreUsed},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			sub := mustSubmission(rawSubmission())
			sub.ForceFitScore = tc.force
			c := Canonicalize(sub)

			a, err := Assess(sub, c, memoDoc(num(strconv.Itoa(tc.score)), tc.reasoning), cfg)
			if err != nil {
				t.Fatalf("Assess: %v", err)
			}
			if a.Memo.FitScore != tc.wantScore || a.Disposition != tc.want {
				t.Fatalf("got score=%d disposition=%s, want %d %s", a.Memo.FitScore, a.Disposition, tc.wantScore, tc.want)
			}
			if len(a.Events) != len(tc.wantEvents) {
				t.Fatalf("events = %+v, want %v", a.Events, tc.wantEvents)
			}
			for i, ev := range a.Events {
				if ev.Type != tc.wantEvents[i] || ev.SourceHash != c.Hash || ev.DealID != "" {
					t.Fatalf("event %d = %+v", i, ev)
				}
			}
			if tc.force != nil && a.Correction != nil {
				t.Fatalf("guardrail must not run on a forced score")
			}
		})
	}
}

func TestAssess_SchemaError(t *testing.T) {
	sub := mustSubmission(rawSubmission())
	_, err := Assess(sub, Canonicalize(sub), memoDoc("85", "ok"), DefaultConfig())
	var se *MemoSchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected MemoSchemaError, got %v", err)
	}
}

func TestAssessRaw(t *testing.T) {
	sub := mustSubmission(rawSubmission())
	raw := []byte(`{"fit_score":58,"executive_summary":"x","strengths":[],"risks":[],"diligence_questions":[],"fit_reasoning":"ok"}`)
	a, err := AssessRaw(sub, Canonicalize(sub), raw, DefaultConfig())
	if err != nil || a.Disposition != Review {
		t.Fatalf("AssessRaw = %+v, %v", a, err)
	}
}
