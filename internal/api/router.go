package api

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/HassanMunene/mazao-erp/docs/swagger"
	"github.com/HassanMunene/mazao-erp/internal/auth"
	"github.com/HassanMunene/mazao-erp/internal/store"
)

// validate checks request DTO struct tags before domain validation runs.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	DB             *sqlx.DB
	SessionManager *scs.SessionManager
	AuthMiddleware *auth.Middleware
	UserStore      *store.UserStore
	CropStore      *store.CropStore
}

// NewRouter assembles the full chi router: public auth routes, the
// session-authenticated resource routes, the admin-gated groups, and the
// operational endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(deps.SessionManager.LoadAndSave)

	r.Get("/healthz", healthz(deps.DB))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		registerAuthRoutes(r, deps.AuthMiddleware, deps.SessionManager, deps.UserStore)

		// Session-authenticated resources.
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			registerCropRoutes(r, deps.CropStore, deps.UserStore)
			registerProfileRoutes(r, deps.UserStore, deps.CropStore)

			// Admin-only groups.
			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequireAdmin)
				registerUserRoutes(r, deps.UserStore)
				registerDashboardRoutes(r, deps.UserStore, deps.CropStore)
			})
		})
	})

	return r
}

// healthz reports liveness, including a database ping.
func healthz(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			writeError(w, KindInternal, "database unreachable")
			return
		}
		writeMessage(w, http.StatusOK, "ok")
	}
}
