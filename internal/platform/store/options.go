package store

import (
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"

	"github.com/rs/zerolog"
)

var zerologNop = zerolog.Nop()

// Option configures a Store before any backend is opened
type Option func(*Store) error

// WithLogger sets the logger handed to backend clients and the SQL tracer
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
