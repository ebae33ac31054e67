package triage

// Assessment is the result of the post-analysis stages for one deal
type Assessment struct {
	Memo        Memo        `json:"memo"`
	Disposition Disposition `json:"disposition"`
	Correction  *Correction `json:"correction,omitempty"`
	Override    *Override   `json:"override,omitempty"`
	// Events are the stage audit entries in emission order, not yet tied to a deal
	Events []Event `json:"events"`
}

// Reasoning is the fit reasoning stored on the deal
func (a Assessment) Reasoning() string { return a.Memo.FitReasoning }

// Assess validates the memo, reconciles its score and classifies the deal
// A forced score bypasses the guardrail entirely
// Returns *MemoSchemaError when the memo breaks its contract
func Assess(sub Submission, c Canonical, doc any, cfg Config) (Assessment, error) {
	memo, err := ValidateMemo(doc, cfg.Scores)
	if err != nil {
		return Assessment{}, err
	}
	return assessMemo(sub, c, memo, cfg), nil
}

// AssessRaw is Assess over undecoded generator output
func AssessRaw(sub Submission, c Canonical, raw []byte, cfg Config) (Assessment, error) {
	memo, err := ParseMemo(raw, cfg.Scores)
	if err != nil {
		return Assessment{}, err
	}
	return assessMemo(sub, c, memo, cfg), nil
}

func assessMemo(sub Submission, c Canonical, memo Memo, cfg Config) Assessment {
	a := Assessment{Events: []Event{}}

	if m, o := ApplyOverride(memo, sub); o != nil {
		memo = m
		a.Override = o
		a.Events = append(a.Events, o.Event(c.Hash))
	} else if m, corr := ApplyGuardrail(memo, cfg.Guardrail); corr != nil {
		memo = m
		a.Correction = corr
		a.Events = append(a.Events, corr.Event(c.Hash))
	}

	a.Memo = memo
	a.Disposition = Classify(sub.Sector, sub.Stage, memo.FitScore, cfg.Thesis)
	return a
}
