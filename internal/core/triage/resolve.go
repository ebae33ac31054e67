package triage

import (
	"context"
	"fmt"
)

// Lookup finds persisted deals; both methods return nil, nil when nothing matches
type Lookup interface {
	BySourceHash(ctx context.Context, hash string) (*DealRef, error)
	ByWebsiteKey(ctx context.Context, key string) (*DealRef, error)
}

// Decision is the resolver outcome
// Existing is set for replay and duplicate; Event is the audit entry to emit for terminal outcomes
type Decision struct {
	Outcome  Outcome
	Existing *DealRef
	Event    *Event
}

// Decide applies the replay then duplicate rule to lookup results
// An exact hash match always wins over a website match
func Decide(c Canonical, byHash, byWebsite *DealRef) Decision {
	if byHash != nil {
		ev := NewEvent(EventIdempotentReplay, c.Hash, map[string]any{
			"existing_deal_id": byHash.ID,
			"status":           string(byHash.Status),
		}).ForDeal(byHash.ID)
		return Decision{Outcome: OutcomeReplay, Existing: byHash, Event: &ev}
	}
	if byWebsite != nil {
		ev := NewEvent(EventDuplicateDetected, c.Hash, map[string]any{
			"existing_deal_id":     byWebsite.ID,
			"existing_source_hash": byWebsite.SourceHash,
			"website_key":          c.WebsiteKey,
		}).ForDeal(byWebsite.ID)
		return Decision{Outcome: OutcomeDuplicate, Existing: byWebsite, Event: &ev}
	}
	return Decision{Outcome: OutcomeContinue}
}

// Resolve consults lk in order and decides; the website lookup is skipped on a hash hit
// Lookup failures are returned as is, no decision is inferred from them
func Resolve(ctx context.Context, lk Lookup, c Canonical) (Decision, error) {
	byHash, err := lk.BySourceHash(ctx, c.Hash)
	if err != nil {
		return Decision{}, fmt.Errorf("lookup by source hash: %w", err)
	}
	if byHash != nil {
		return Decide(c, byHash, nil), nil
	}
	byWebsite, err := lk.ByWebsiteKey(ctx, c.WebsiteKey)
	if err != nil {
		return Decision{}, fmt.Errorf("lookup by website: %w", err)
	}
	return Decide(c, nil, byWebsite), nil
}
