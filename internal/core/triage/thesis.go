package triage

// Classify maps a scored deal onto the thesis
// Rules run in order and the first hit wins:
// 1 Qualified when sector and stage are targeted and score is strictly above QualifyAbove
// 2 Review when score sits in the review band, whatever the sector or stage
// 3 Pass otherwise
func Classify(sector, stage string, score int, t Thesis) Disposition {
	switch {
	case t.qualifies(sector, stage, score):
		return Qualified
	case t.Review.Contains(score):
		return Review
	default:
		return Pass
	}
}

func (t Thesis) qualifies(sector, stage string, score int) bool {
	return t.Targets(sector, stage) && score > t.QualifyAbove
}

// Targets reports whether sector and stage are both targeted
func (t Thesis) Targets(sector, stage string) bool {
	return contains(t.Sectors, sector) && contains(t.Stages, stage)
}

// contains compares normalized values so "b2b  saas" matches "B2B SaaS"
func contains(set []string, v string) bool {
	nv := normalizeText(v)
	if nv == "" {
		return false
	}
	for _, s := range set {
		if normalizeText(s) == nv {
			return true
		}
	}
	return false
}
