package triage

import "strings"

// Correction records a guardrail adjustment
type Correction struct {
	Original  int    `json:"original_score"`
	Corrected int    `json:"corrected_score"`
	Phrase    string `json:"matched_phrase"`
}

// MatchPhrase returns the first configured phrase found in reasoning
// Matching ignores case and whitespace runs; blank phrases never match
func MatchPhrase(reasoning string, phrases []string) (string, bool) {
	text := normalizeText(reasoning)
	if text == "" {
		return "", false
	}
	for _, p := range phrases {
		np := normalizeText(p)
		if np == "" {
			continue
		}
		if strings.Contains(text, np) {
			return p, true
		}
	}
	return "", false
}

// ApplyGuardrail lifts a score contradicted by high-confidence reasoning to exactly the floor
// The score is never lowered and never raised past the floor
func ApplyGuardrail(m Memo, g Guardrail) (Memo, *Correction) {
	if m.FitScore >= g.Floor {
		return m, nil
	}
	phrase, ok := MatchPhrase(m.FitReasoning, g.Phrases)
	if !ok {
		return m, nil
	}
	c := &Correction{Original: m.FitScore, Corrected: g.Floor, Phrase: phrase}
	m.FitScore = g.Floor
	return m, c
}

// Event renders the correction as an audit entry
func (c Correction) Event(sourceHash string) Event {
	return NewEvent(EventScoreConsistencyFix, sourceHash, map[string]any{
		"original_score":  c.Original,
		"corrected_score": c.Corrected,
		"matched_phrase":  c.Phrase,
	})
}
