package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/repokit"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/config"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/store"
	drepo "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/repo"
)

// openStore opens the backends named by SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_*
func openStore(ctx context.Context, wantPG, wantCH bool) (*store.Store, error) {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	cfg := store.Config{}
	if wantPG {
		cfg.PG = store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    1,
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
		}
	}
	if wantCH && chCfg.MayBool("ENABLED", wantCH) {
		cfg.CH = store.CHConfig{
			Enabled: true,
			URL:     chCfg.MustString("DBURL"),
			Role:    "cli",
		}
	}
	return store.Open(ctx, cfg, store.WithLogger(*logger.Get()))
}

func newMigrateCmd() *cobra.Command {
	var withCH bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the deals schema to Postgres and optionally the ClickHouse mirror",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, err := openStore(ctx, true, withCH)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(context.Background()) }()

			if err := drepo.Migrate(ctx, st.PG, st.CH); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deals schema applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&withCH, "clickhouse", false, "also create the ClickHouse event mirror")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var since time.Duration
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count mirrored pipeline events by type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, err := openStore(ctx, false, true)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(context.Background()) }()

			m := drepo.NewMirror(st.CH)
			if m == nil {
				return fmt.Errorf("clickhouse is disabled")
			}
			counts, err := m.CountByType(ctx, time.Now().Add(-since))
			if err != nil {
				return err
			}
			writeCounts(cmd, counts)
			return nil
		},
	}
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "look back window")
	return cmd
}

func newPingCmd() *cobra.Command {
	var withCH bool
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that Postgres (and ClickHouse when enabled) answer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, err := openStore(ctx, true, withCH)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(context.Background()) }()

			if err := repokit.Guard(ctx, st); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.Flags().BoolVar(&withCH, "clickhouse", false, "also ping the ClickHouse mirror")
	return cmd
}

func writeCounts(cmd *cobra.Command, counts map[triage.EventType]uint64) {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(cmd.OutOrStdout(), "%-22s %d\n", t, counts[triage.EventType(t)])
	}
}
