// Package config reads typed settings from the environment under a prefix
//
// Must* panics through the logger when a value is missing or malformed; May* falls back to def
// and warns when a value is present but unparseable
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
)

// Conf is a view of the environment under a prefix, eg New().Prefix("DEALS_")
type Conf struct{ prefix string }

// New is the unprefixed root
func New() Conf { return Conf{} }

// Prefix nests p under c's prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// MustString panics when key is unset or blank
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// may parses key with parse, falling back to def when unset or unparseable
func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Err(err).Str("key", c.key(key)).Str("value", s).Interface("default", def).
			Msg("invalid env value; using default")
		return def
	}
	return v
}

func (c Conf) MayString(key, def string) string {
	return may(c, key, def, func(s string) (string, error) { return s, nil })
}

func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration takes Go duration syntax, eg 250ms or 2s
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits a comma separated list, dropping blanks; all blanks is def
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
