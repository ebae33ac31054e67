package service

import (
	"context"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/domain"
)

// Sink is a named event sink
type Sink struct {
	Name string
	domain.EventSink
}

// fanout stamps events and hands them to every sink
// sink failures are logged and dropped
type fanout struct {
	sinks []Sink
	now   func() time.Time
}

var _ triage.Emitter = (*fanout)(nil)

func (f *fanout) Emit(ctx context.Context, ev triage.Event) {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = f.now().UTC()
	}
	for _, s := range f.sinks {
		if s.EventSink == nil {
			continue
		}
		if err := s.Append(ctx, ev); err != nil {
			logger.C(ctx).Warn().
				Err(err).
				Str("sink", s.Name).
				Str("event_type", string(ev.Type)).
				Str("source_hash", ev.SourceHash).
				Msg("event sink append failed")
		}
	}
}
