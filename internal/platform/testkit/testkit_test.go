package testkit

import "testing"

var seam = func() string { return "real" }

func TestSwap_RestoresAfterTest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Serial(t)
		Swap(t, &seam, func() string { return "fake" })
		if got := seam(); got != "fake" {
			t.Fatalf("seam = %q, want fake", got)
		}
	})
	if got := seam(); got != "real" {
		t.Fatalf("seam not restored, got %q", got)
	}
}

func TestMustPanic_ReturnsValue(t *testing.T) {
	got := MustPanic(t, func() { panic("deal module: bad config") })
	if got != "deal module: bad config" {
		t.Fatalf("recovered %v", got)
	}
}
