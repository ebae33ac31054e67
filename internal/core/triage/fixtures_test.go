package triage

import "encoding/json"

func rawSubmission() map[string]any {
	return map[string]any{
		"company_name": "Acme Analytics",
		"website":      "https://www.acme.io/",
		"sector":       "B2B SaaS",
		"stage":        "Seed",
		"geography":    "Brazil",
		"pitch":        "Revenue intelligence for mid-market finance teams.",
	}
}

func mustSubmission(raw map[string]any) Submission {
	s, err := ParseSubmission(raw, DefaultConfig().Scores)
	if err != nil {
		panic(err)
	}
	return s
}

func memoDoc(score any, reasoning string) map[string]any {
	return map[string]any{
		"fit_score":           score,
		"executive_summary":   "x",
		"strengths":           []any{},
		"risks":               []any{},
		"diligence_questions": []any{},
		"fit_reasoning":       reasoning,
	}
}

func num(s string) json.Number { return json.Number(s) }

func intp(v int) *int { return &v }
