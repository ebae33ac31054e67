// @title         Deal Flow API
// @version       0.1.0
// @description   Inbound deal triage: intake, dedupe, analysis, thesis classification
// @BasePath      /api/v1

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/repokit"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/config"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
	phttp "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/net/http"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/store"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/api"
	dealsmod "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/module"
	drepo "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/repo"
)

func main() {
	opt := logger.FromEnv()
	if opt.Service == "" {
		opt.Service = "dealflow-api"
	}
	l := logger.Init(opt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		l.Error().Err(err).Msg("dealflow-api stopped")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	l := logger.Get()
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	// postgres is required, the clickhouse event mirror is optional
	chOn := chCfg.MayBool("ENABLED", false)
	chURL := ""
	if chOn {
		chURL = chCfg.MustString("DBURL")
	}

	st, err := store.Open(ctx,
		store.Config{
			AppName: "dealflow-api",
			PG: store.PGConfig{
				Enabled:        true,
				URL:            pgCfg.MustString("DBURL"),
				MaxConns:       int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs:    pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:         pgCfg.MayBool("LOG_SQL", false),
				ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 6),
				PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 5*time.Second),
			},
			CH: store.CHConfig{
				Enabled: chOn,
				URL:     chURL,
				Role:    "api",
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.WithoutCancel(ctx)); err != nil {
			l.Error().Err(err).Msg("close store")
		}
	}()

	if err := repokit.Guard(ctx, st); err != nil {
		return err
	}

	if dealsmod.FromConfig(root).Migrate {
		if err := drepo.Migrate(ctx, st.PG, st.CH); err != nil {
			return err
		}
		l.Info().Msg("deals schema applied")
	}

	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})
	return srv.Run(ctx)
}
