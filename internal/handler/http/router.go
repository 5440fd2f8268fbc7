package http

import (
	"log/slog"
	"net/http"

	"github.com/facturaflow/dashboard/internal/handler/http/middleware"
	"github.com/facturaflow/dashboard/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the settings the router needs from config
type RouterConfig struct {
	FrontendURL string
	LogLevel    slog.Level
}

// NewRouter wires the dashboard routes. statsHandler may be nil, in which
// case /api/dashboard-stats is not mounted.
func NewRouter(
	cfg RouterConfig,
	logger *slog.Logger,
	JWTService jwt.Service,
	dashboardHandler DashboardHandler,
	statsHandler StatsHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))
	r.Use(middleware.SecurityHeaders)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/estadistica/", http.StatusFound)
	})
	r.Get("/estadistica", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/estadistica/", http.StatusMovedPermanently)
	})
	r.Get("/estadistica/", dashboardHandler.Page)

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/state", dashboardHandler.State)
		r.Get("/summary", dashboardHandler.Summary)
		r.Get("/activity", dashboardHandler.Activity)
		r.Get("/events", dashboardHandler.Events)
		r.Post("/refresh", dashboardHandler.Refresh)

		r.Route("/charts/{chart}", func(r chi.Router) {
			r.Get("/", dashboardHandler.Chart)
			r.Post("/legend/{index}", dashboardHandler.ToggleLegend)
		})

		r.Route("/sessions/{id}/sidebar", func(r chi.Router) {
			r.Post("/toggle", dashboardHandler.ToggleSidebar)
			r.Post("/close", dashboardHandler.CloseSidebar)
		})

		r.Post("/selectors/{name}", dashboardHandler.SelectorChanged)
	})

	if statsHandler != nil {
		// Requires a service token
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.ServiceTokenRequired)
			r.Get("/api/dashboard-stats", statsHandler.GetDashboardStats)
		})
	}

	return r
}
