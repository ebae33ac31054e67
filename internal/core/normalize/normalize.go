// Package normalize folds free-text deal fields into the form their fingerprint is computed over
//
// Field drops invalid UTF-8, control runes other than whitespace, and format runes
// (zero width joiners, BOM, bidi marks), composes to NFC, lower cases without locale
// rules, and collapses every whitespace run to one space. The result never holds a
// newline, so callers may join fields with '\n'.
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// chains holds transformers, which carry state and cannot be shared between goroutines
var chains = sync.Pool{
	New: func() any {
		return transform.Chain(
			runes.Remove(runes.Predicate(dropped)),
			norm.NFC,
			cases.Lower(language.Und),
			norm.NFC,
		)
	},
}

// dropped keeps whitespace controls (\v, \f, NEL) so they collapse to a space instead of joining words
func dropped(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	return unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r)
}

// Field returns the normalized form of s; it is idempotent
func Field(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	t := chains.Get().(transform.Transformer)
	out, _, err := transform.String(t, s)
	t.Reset()
	chains.Put(t)
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(out), " ")
}
