package triage

import "testing"

func TestClassify(t *testing.T) {
	th := DefaultConfig().Thesis
	tests := []struct {
		sector, stage string
		score         int
		want          Disposition
	}{
		{"B2B SaaS", "Seed", 78, Qualified},
		{"B2B SaaS", "Seed", 66, Qualified},
		{"B2B SaaS", "Seed", 65, Review}, // threshold is exclusive
		{"B2B SaaS", "Seed", 58, Review},
		{"Gaming", "Growth", 58, Review},
		{"Gaming", "Series A", 80, Pass},
		{"Fintech", "Series C", 90, Pass},
		{"AI", "Pre-Seed", 50, Review},
		{"AI", "Pre-Seed", 49, Pass},
		{"AI", "Pre-Seed", 100, Qualified},
		{"  b2b   saas ", "SEED", 70, Qualified},
		{"", "Seed", 90, Pass},
	}
	for _, tc := range tests {
		if got := Classify(tc.sector, tc.stage, tc.score, th); got != tc.want {
			t.Fatalf("Classify(%q, %q, %d) = %s, want %s", tc.sector, tc.stage, tc.score, got, tc.want)
		}
	}
}

func TestClassify_BandAboveThreshold(t *testing.T) {
	// a band overlapping the qualification range only applies once the conjunction fails
	th := Thesis{Sectors: []string{"AI"}, Stages: []string{"Seed"}, QualifyAbove: 60, Review: Bounds{Min: 50, Max: 80}}
	if got := Classify("AI", "Seed", 70, th); got != Qualified {
		t.Fatalf("got %s, want Qualified", got)
	}
	if got := Classify("Gaming", "Seed", 70, th); got != Review {
		t.Fatalf("got %s, want Review", got)
	}
}

func TestDisposition_Status(t *testing.T) {
	for _, d := range []Disposition{Qualified, Review, Pass} {
		if !d.Status().Valid() {
			t.Fatalf("%s does not map to a valid status", d)
		}
	}
	if Status("Archived").Valid() {
		t.Fatalf("unknown status reported valid")
	}
}
