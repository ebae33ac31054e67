package triage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/normalize"

	"github.com/gowebpki/jcs"
)

// fieldSep joins normalized fields; normalize output never contains it
const fieldSep = '\n'

// Canonical is the fingerprint of a submission
type Canonical struct {
	// Form is the canonical byte sequence the hash is computed over
	Form []byte
	// Hash is the hex sha256 of Form
	Hash string
	// Fields holds the normalized field values keyed by json name
	Fields map[string]string
	// WebsiteKey is the duplicate detection key
	WebsiteKey string
}

// Canonicalize normalizes s and fingerprints it
// force_fit_score is not part of the fingerprint
func Canonicalize(s Submission) Canonical {
	vals := s.values()
	fields := make(map[string]string, len(vals))

	var b strings.Builder
	for i, v := range vals {
		nv := normalizeText(v)
		fields[FieldOrder[i]] = nv
		if i > 0 {
			b.WriteByte(fieldSep)
		}
		b.WriteString(nv)
	}

	form := []byte(b.String())
	sum := sha256.Sum256(form)
	return Canonical{
		Form:       form,
		Hash:       hex.EncodeToString(sum[:]),
		Fields:     fields,
		WebsiteKey: WebsiteKey(s.Website),
	}
}

// Snapshot returns the RFC 8785 canonical JSON of the normalized fields
func (c Canonical) Snapshot() ([]byte, error) {
	raw, err := json.Marshal(c.Fields)
	if err != nil {
		return nil, fmt.Errorf("marshal normalized fields: %w", err)
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonical json: %w", err)
	}
	return out, nil
}

// WebsiteKey reduces a website to its host-ish identity
// https://www.Acme.io/ and acme.io share a key
func WebsiteKey(website string) string {
	k := normalizeText(website)
	for _, p := range []string{"https://", "http://"} {
		if strings.HasPrefix(k, p) {
			k = k[len(p):]
			break
		}
	}
	k = strings.TrimPrefix(k, "www.")
	return strings.TrimRight(k, "/")
}

func normalizeText(s string) string { return normalize.Field(s) }
