// Package raw reads env during logger bootstrap; it can't log, so bad values silently become def
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a prefixed view of the environment
type Conf struct{ prefix string }

func New() Conf { return Conf{} }

func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Get is the trimmed value, def when blank
func (c Conf) Get(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(c.prefix + key)); v != "" {
		return v
	}
	return def
}

// GetBool accepts strconv.ParseBool forms plus yes/no
func (c Conf) GetBool(key string, def bool) bool {
	switch v := strings.ToLower(c.Get(key, "")); v {
	case "":
		return def
	case "yes", "y", "on":
		return true
	case "no", "n", "off":
		return false
	default:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
}

// GetInt is a non-negative int, def otherwise
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.Get(key, ""))
	if err != nil || n < 0 {
		return def
	}
	return n
}
