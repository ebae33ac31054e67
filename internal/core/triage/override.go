package triage

// Override records a caller forced score
type Override struct {
	Value    int `json:"override_value"`
	Replaced int `json:"replaced_score"`
}

// ApplyOverride replaces the memo score with the submission's force_fit_score when present
func ApplyOverride(m Memo, sub Submission) (Memo, *Override) {
	if sub.ForceFitScore == nil {
		return m, nil
	}
	o := &Override{Value: *sub.ForceFitScore, Replaced: m.FitScore}
	m.FitScore = o.Value
	return m, o
}

// Event renders the override as an audit entry
func (o Override) Event(sourceHash string) Event {
	return NewEvent(EventForceFitScoreUsed, sourceHash, map[string]any{
		"override_value": o.Value,
		"replaced_score": o.Replaced,
		"source":         "force_fit_score",
	})
}
