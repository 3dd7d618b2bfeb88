package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/traylingo/traylingo/pkg/cache"
	"github.com/traylingo/traylingo/pkg/config"
	"github.com/traylingo/traylingo/pkg/diag"
	"github.com/traylingo/traylingo/pkg/models"
	"github.com/traylingo/traylingo/pkg/server"
	"github.com/traylingo/traylingo/pkg/store"
	"github.com/traylingo/traylingo/pkg/tracker"
	"github.com/traylingo/traylingo/pkg/translate"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the translation daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			st, err := store.Open(cfg.StorePath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}

			// Persisted settings override the config file.
			var settings models.Settings
			if ok, _ := st.Get("settings", &settings); ok {
				if settings.Model != "" {
					cfg.Model = settings.Model
				}
				cfg.Cache.Enabled = settings.CacheEnabled
				cfg.Telemetry.Enabled = settings.TelemetryEnabled
			}

			c := cache.New(st, cfg.Cache)
			d := diag.New(st, cfg.Telemetry.Enabled)

			tk, err := tracker.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("init usage ledger: %w", err)
			}
			defer func() { _ = tk.Close() }()

			tr := translate.New(cfg, c, d, tk, secretProvider(cfg))

			hub := server.NewHub()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go hub.Run(ctx)

			// Expired cache entries also fall out lazily on write; the
			// nightly sweep keeps the store small during idle periods.
			sched := cron.New()
			if _, err := sched.AddFunc("@daily", func() {
				if n, err := c.PurgeExpired(); err != nil {
					log.Printf("cache purge: %v", err)
				} else if n > 0 {
					log.Printf("cache purge: removed %d expired entries", n)
				}
			}); err != nil {
				return fmt.Errorf("schedule cache purge: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			srv := server.New(cfg, tr, c, d, tk, st, hub)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}
