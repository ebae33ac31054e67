// Package logger holds the process root zerolog logger and builds request scoped children from it
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/config/raw"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project logger type
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level       string // trace..panic, unknown falls back to debug
	Format      string // console or json
	Service     string
	Writer      io.Writer // stdout when nil
	WithCaller  bool
	SampleEvery int
	Fields      map[string]string
}

// FromEnv reads LOG_* through the raw config view, which never logs
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       rc.Get("LEVEL", "debug"),
		Format:      strings.ToLower(rc.Get("FORMAT", "console")),
		Service:     rc.Get("SERVICE", ""),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	mu   sync.RWMutex
	once sync.Once
	root *Logger
)

// Init builds the root logger from opt; only the first call (or first Get) wins
func Init(opt Options) *Logger {
	once.Do(func() {
		l := build(opt)
		mu.Lock()
		root = &l
		mu.Unlock()
	})
	return Get()
}

// Get returns the root logger, initialising it from the environment on first use
func Get() *Logger {
	mu.RLock()
	l := root
	mu.RUnlock()
	if l != nil {
		return l
	}
	return Init(FromEnv())
}

func build(opt Options) Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	w := opt.Writer
	if w == nil {
		w = os.Stdout
	}
	if opt.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	c := zerolog.New(w).Level(level(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		c = c.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		c = c.Str("service", opt.Service)
	}
	for k, v := range opt.Fields {
		c = c.Str(k, v)
	}
	if opt.WithCaller {
		c = c.Caller()
	}

	l := c.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

func level(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

type sourceHashKey struct{}

// WithSourceHash tags ctx with the fingerprint of the submission being triaged
func WithSourceHash(ctx context.Context, hash string) context.Context {
	if hash == "" {
		return ctx
	}
	return context.WithValue(ctx, sourceHashKey{}, hash)
}

// C returns a child of the root logger carrying request_id and source_hash from ctx
func C(ctx context.Context) *Logger {
	c := Get().With()
	if id := chimw.GetReqID(ctx); id != "" {
		c = c.Str("request_id", id)
	}
	if h, _ := ctx.Value(sourceHashKey{}).(string); h != "" {
		c = c.Str("source_hash", h)
	}
	l := c.Logger()
	return &l
}

// Named returns a child of the root logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
