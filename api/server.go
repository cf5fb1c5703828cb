/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for dashboard frontends

ROUTE GROUPS:
  /api/reports/*  Dashboard, drill-down, hourly and daily reports
  /api/agents/*   Roster queries
  /api/admin/*    Data regeneration and seeding
  /metrics        Prometheus exposition

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/dashboard", h.GetDashboard)
			r.Get("/contract/{type}", h.GetContractReport)
			r.Get("/hourly", h.GetHourlyReport)
			r.Get("/instant", h.GetInstantReport)
			r.Get("/daily", h.GetDailySeries)
		})

		// Roster routes
		r.Route("/agents", func(r chi.Router) {
			r.Get("/", h.ListAgents)
			r.Get("/top", h.GetTopAgents)
		})

		// Reporting inputs
		r.Get("/factors", h.GetFactors)
		r.Get("/kpi-targets", h.GetKPITargets)

		// System status
		r.Get("/summary", h.GetSummary)

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/regenerate", h.Regenerate)
			r.Post("/seed", h.QuickSeed)
		})
	})

	// Prometheus exposition
	r.Method("GET", "/metrics", h.Metrics.Handler())

	return r
}
