package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
	chx "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/store/ch"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/store/pg"
)

// seams for tests
var (
	openPGClient = pg.Open
	pingPG       = func(ctx context.Context, p *pg.PG) error { return p.Pool.Ping(ctx) }
	openCHClient = chx.Open

	pgBackoff    = 250 * time.Millisecond
	pgBackoffMax = 8 * time.Second
)

func openPG(ctx context.Context, cfg Config, log logger.Logger) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(log)
	}

	p, err := openPGClient(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, tracer)
	if err != nil {
		return nil, err
	}

	if err := waitForPG(ctx, p, cfg.PG, log); err != nil {
		p.Close()
		return nil, err
	}
	return newPGStore(p), nil
}

// waitForPG pings the pool until it answers; the pool dials lazily so this is the first real connect
func waitForPG(ctx context.Context, p *pg.PG, c PGConfig, log logger.Logger) error {
	attempts := c.retries()
	wait := pgBackoff

	var err error
	for i := 1; i <= attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, c.pingTimeout())
		err = pingPG(pctx, p)
		cancel()
		if err == nil {
			return nil
		}
		if i == attempts {
			break
		}

		log.Warn().Err(err).Int("attempt", i).Dur("retry_in", wait).Msg("postgres not ready")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, pgBackoffMax)
	}
	return fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, err)
}

func openCH(ctx context.Context, cfg Config, log logger.Logger) (Clickhouse, error) {
	c, err := openCHClient(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.CH.Role, Tag: cfg.AppName})
	if err != nil {
		return nil, err
	}
	log.Debug().Str("role", cfg.CH.Role).Msg("clickhouse connected")
	return newCHAdapter(c), nil
}
