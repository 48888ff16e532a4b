package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xeonx/timeago"

	"github.com/seenimoa/fundlens/api"
	"github.com/seenimoa/fundlens/internal/config"
	"github.com/seenimoa/fundlens/internal/scheduler"
	"github.com/seenimoa/fundlens/internal/store"
	"github.com/seenimoa/fundlens/pkg/utils"
)

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server. When sync.enabled is set and a remote fund API
is configured, a background job also stores a fresh snapshot on sync.schedule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.API.Port = port
		}

		syncing := cfg.Sync.Enabled && cfg.Remote.Enabled
		a, err := newApp(ctx, syncing)
		if err != nil {
			return err
		}
		defer a.Close()

		if syncing {
			sched := scheduler.New(ctx, log)
			job := scheduler.NewSyncJob(a.remote, a.store, syncTimeout(), log)
			if err := sched.AddJob(cfg.Sync.Schedule, job); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()
		} else if cfg.Sync.Enabled {
			log.Warn().Msg("sync.enabled is set but remote.enabled is not; background sync is off")
		}

		srv := api.NewServer(cfg, api.Options{
			Facade:    a.facade,
			News:      a.news,
			Synthetic: a.synth,
			Logger:    log,
		})
		fmt.Printf("Starting fundlens API server on %s (%d funds from %s)\n",
			cfg.API.Addr(), a.repo.Len(), a.facade.Name())
		return srv.ListenAndServe(ctx, cfg.API.Addr())
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides api.port)")
}

func syncTimeout() time.Duration {
	if cfg.Remote.TimeoutSec > 0 {
		return time.Duration(cfg.Remote.TimeoutSec) * 6 * time.Second
	}
	return 5 * time.Minute
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  fundlens: System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Time (IST):    %s\n", utils.FormatDateTimeIST(utils.NowIST()))
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		configFile := cfg.File
		if configFile == "" {
			configFile = "(defaults)"
		}
		fmt.Printf("    Config file:   %s\n", configFile)
		fmt.Printf("    Data source:   %s\n", dataSourceLabel(cfg.Data))
		remote := "disabled"
		if cfg.Remote.Enabled {
			remote = cfg.Remote.BaseURL
		}
		fmt.Printf("    Remote API:    %s\n", remote)
		fmt.Printf("    API Server:    %s\n", cfg.API.Addr())
		fmt.Printf("    Tax rate:      %g%% on gains\n", cfg.Calculator.TaxRate*100)
		fmt.Println()

		// Catalog
		ctx := cmd.Context()
		a, err := newApp(ctx, false)
		if err != nil {
			fmt.Printf("  Catalog:       ❌ %v\n", err)
		} else {
			stats := a.repo.Stats()
			fmt.Println("  Catalog:")
			fmt.Printf("    Funds:         %d in %d categories\n", stats.TotalFunds, stats.CategoryCount)
			fmt.Printf("    Avg 1Y return: %s\n", utils.FormatReturn(stats.AverageReturn1Y))
			if stats.TopGainer != nil {
				fmt.Printf("    Top gainer:    %s (%s)\n", stats.TopGainer.SchemeName, utils.FormatReturn(stats.TopGainer.Returns.OneYear))
			}
			a.Close()
		}
		fmt.Println()

		// Snapshot store
		fmt.Println("  Snapshot store:")
		fmt.Printf("    Path:          %s\n", cfg.Sync.StorePath)
		fmt.Printf("    Last sync:     %s\n", lastSyncLabel(ctx))
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

func dataSourceLabel(d config.DataConfig) string {
	switch d.Source {
	case config.SourceCSV, config.SourceHTML:
		return d.Source + " (" + d.Path + ")"
	case config.SourceGenerated:
		return fmt.Sprintf("generated (%d funds, seed %d)", d.GenerateCount, d.Seed)
	}
	return d.Source
}

func lastSyncLabel(ctx context.Context) string {
	if _, err := os.Stat(cfg.Sync.StorePath); err != nil {
		return "never (no store)"
	}
	st, err := openStore()
	if err != nil {
		return "unavailable: " + err.Error()
	}
	defer st.Close()

	run, err := st.LastRun(ctx)
	if errors.Is(err, store.ErrNoRuns) {
		return "never"
	}
	if err != nil {
		return "unavailable: " + err.Error()
	}
	return fmt.Sprintf("%s, %d funds from %s", timeago.English.Format(run.FinishedAt), run.FundCount, run.Source)
}
