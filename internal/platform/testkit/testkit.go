// Package testkit holds small helpers shared by package tests
package testkit

import (
	"sync"
	"testing"
)

var seams sync.Mutex

// Swap points a package-level seam at fake until the test ends
func Swap[T any](t *testing.T, seam *T, fake T) {
	t.Helper()
	prev := *seam
	*seam = fake
	t.Cleanup(func() { *seam = prev })
}

// Serial holds a process-wide lock for the rest of the test
// Use it in every test that swaps the same seam
func Serial(t *testing.T) {
	t.Helper()
	seams.Lock()
	t.Cleanup(seams.Unlock)
}

// MustPanic fails the test unless fn panics, and returns the recovered value
func MustPanic(t *testing.T, fn func()) (recovered any) {
	t.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
	return nil
}
