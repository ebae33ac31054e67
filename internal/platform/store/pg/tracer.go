package pg

import (
	"context"
	"strings"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one statement as seen by the store
type QueryEvent struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives every traced statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs statements through root regardless of its level
// Only enabled when SQL logging is switched on, so it must not be filtered away
func Tracer(root logger.Logger) QueryTracer {
	return logTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type logTracer struct{ log logger.Logger }

func (t logTracer) OnQuery(_ context.Context, ev QueryEvent) {
	e := t.log.Info()
	switch {
	case ev.Err != nil:
		e = t.log.Error().Err(ev.Err)
	case ev.Slow:
		e = t.log.Warn()
	}
	e.Float64("elapsed_ms", float64(ev.Elapsed.Microseconds())/1000).
		Bool("slow", ev.Slow).
		Str("sql", squash(ev.SQL)).
		Interface("args", ev.Args).
		Msg("pg query")
}

// squash collapses whitespace runs so multi-line SQL logs on one line
func squash(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
