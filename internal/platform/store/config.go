package store

import "time"

// Config selects and configures backends for Open
type Config struct {
	// AppName shows up as application_name in postgres and in clickhouse client info
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures the postgres pool
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries is how many pings Open tries before giving up, default 6
	ConnectRetries int
	// PingTimeout bounds each of those pings, default 5s
	PingTimeout time.Duration
}

// CHConfig configures the clickhouse connection
type CHConfig struct {
	Enabled bool
	URL     string

	// Role tags the connection in client info, eg "api" or "cli"
	Role string
}

func (c PGConfig) retries() int {
	if c.ConnectRetries <= 0 {
		return 6
	}
	return c.ConnectRetries
}

func (c PGConfig) pingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}
