package triage

import (
	"context"
	"time"
)

// EventType is the fixed audit vocabulary
type EventType string

const (
	EventIntakeReceived      EventType = "intake_received"
	EventIdempotentReplay    EventType = "idempotent_replay"
	EventDuplicateDetected   EventType = "duplicate_detected"
	EventScoreConsistencyFix EventType = "score_consistency_fix"
	EventForceFitScoreUsed   EventType = "force_fit_score_used"
	EventDealCreated         EventType = "deal_created"
)

// EventTypes lists the vocabulary in pipeline order
var EventTypes = []EventType{
	EventIntakeReceived,
	EventIdempotentReplay,
	EventDuplicateDetected,
	EventScoreConsistencyFix,
	EventForceFitScoreUsed,
	EventDealCreated,
}

// Valid reports whether t belongs to the vocabulary
func (t EventType) Valid() bool {
	for _, v := range EventTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Event is an append-only audit entry
// DealID is empty when no deal exists yet; CreatedAt is stamped by whoever emits it
type Event struct {
	Type       EventType      `json:"event_type"`
	DealID     string         `json:"deal_id,omitempty"`
	SourceHash string         `json:"source_hash"`
	Payload    map[string]any `json:"payload"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewEvent builds an unstamped event
func NewEvent(t EventType, sourceHash string, payload map[string]any) Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return Event{Type: t, SourceHash: sourceHash, Payload: payload}
}

// ForDeal returns a copy of e referencing dealID
func (e Event) ForDeal(dealID string) Event {
	e.DealID = dealID
	return e
}

// Emitter accepts fully formed events
// Emit never reports failure; implementations log and drop
type Emitter interface {
	Emit(ctx context.Context, ev Event)
}
