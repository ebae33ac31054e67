package domain

import (
	"context"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
)

// ServicePort is the interface implemented by the deals service
type ServicePort interface {
	Submit(ctx context.Context, raw map[string]any) (Result, error)
	Assess(ctx context.Context, in AssessInput) (AssessOutput, error)
	Get(ctx context.Context, id string) (Deal, error)
	Events(ctx context.Context, id string) ([]triage.Event, error)
	List(ctx context.Context, f ListFilter) (ListOutput, error)
	Config() triage.Config
}

// Generator produces the raw analysis document for a submission
type Generator interface {
	Generate(ctx context.Context, sub triage.Submission) ([]byte, error)
}

// Notifier delivers a formatted message to the team channel
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// EventSink persists one audit entry
type EventSink interface {
	Append(ctx context.Context, ev triage.Event) error
}

// EventSinkFunc adapts a function to EventSink
type EventSinkFunc func(ctx context.Context, ev triage.Event) error

// Append calls f
func (f EventSinkFunc) Append(ctx context.Context, ev triage.Event) error { return f(ctx, ev) }
