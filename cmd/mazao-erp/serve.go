package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/HassanMunene/mazao-erp/internal/api"
	"github.com/HassanMunene/mazao-erp/internal/auth"
	"github.com/HassanMunene/mazao-erp/internal/config"
	"github.com/HassanMunene/mazao-erp/internal/db"
	"github.com/HassanMunene/mazao-erp/internal/metrics"
	"github.com/HassanMunene/mazao-erp/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, !cfg.InsecureCookies)

			userStore := store.NewUserStore(database)
			cropStore := store.NewCropStore(database)
			authMiddleware := auth.NewMiddleware(sessionManager, userStore)

			go runStatsRefresher(cmd.Context(), userStore, cropStore)

			router := api.NewRouter(api.Deps{
				DB:             database,
				SessionManager: sessionManager,
				AuthMiddleware: authMiddleware,
				UserStore:      userStore,
				CropStore:      cropStore,
			})

			log.Printf("listening on %s", cfg.HTTP.Addr)
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}

// runStatsRefresher keeps the totals gauges in sync with the database. It
// refreshes once immediately and then every minute until ctx is cancelled.
func runStatsRefresher(ctx context.Context, users *store.UserStore, crops *store.CropStore) {
	refresh := func() {
		if counts, err := users.Counts(ctx); err == nil {
			metrics.UsersTotal.Set(float64(counts.Total))
		}
		if st, err := crops.Stats(ctx, ""); err == nil {
			metrics.CropsTotal.Set(float64(st.Total))
		}
	}
	refresh()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			refresh()
		case <-ctx.Done():
			return
		}
	}
}
