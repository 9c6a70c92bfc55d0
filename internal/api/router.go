package api

import (
	"net/http"

	"github.com/Rrens/careops/internal/api/handler"
	customMiddleware "github.com/Rrens/careops/internal/api/middleware"
	"github.com/Rrens/careops/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the use cases and infrastructure the HTTP layer serves
type Deps struct {
	Tokens   customMiddleware.TokenValidator
	Limiter  customMiddleware.RateLimiter
	DB       handler.Pinger
	Rules    handler.RuleManager
	Alerts   handler.AlertInbox
	Events   handler.EventRaiser
	Scans    handler.ScanRunner
	Realtime handler.WorkspaceStreamer
}

// NewRouter creates and configures the HTTP router. Limiter, Scans and
// Realtime may be nil; their routes are then not mounted.
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	ruleHandler := handler.NewRuleHandler(deps.Rules)
	alertHandler := handler.NewAlertHandler(deps.Alerts)
	eventHandler := handler.NewEventHandler(deps.Events)

	authMiddleware := customMiddleware.NewAuthMiddleware(deps.Tokens)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.DB))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Long-lived; kept outside the request timeout and rate limit
			if deps.Realtime != nil {
				r.With(customMiddleware.WorkspaceContext).
					Get("/workspaces/{workspaceID}/ws", handler.NewRealtimeHandler(deps.Realtime).Stream)
			}

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))
				if deps.Limiter != nil {
					r.Use(customMiddleware.NewRateLimitMiddleware(deps.Limiter).Limit)
				}

				r.Route("/workspaces/{workspaceID}", func(r chi.Router) {
					r.Use(customMiddleware.WorkspaceContext)

					r.Route("/automations", func(r chi.Router) {
						r.Get("/", ruleHandler.List)
						r.Post("/", ruleHandler.Create)
						r.Get("/templates", ruleHandler.Templates)
						r.Post("/templates", ruleHandler.CreateFromTemplates)

						r.Route("/{ruleID}", func(r chi.Router) {
							r.Get("/", ruleHandler.Get)
							r.Patch("/", ruleHandler.Update)
							r.Post("/enable", ruleHandler.Enable)
							r.Post("/disable", ruleHandler.Disable)
							r.Get("/history", ruleHandler.History)
						})
					})

					r.Route("/alerts", func(r chi.Router) {
						r.Get("/", alertHandler.List)
						r.Post("/read-all", alertHandler.MarkAllRead)
						r.Post("/{alertID}/read", alertHandler.MarkRead)
					})

					r.Post("/events", eventHandler.Raise)
				})

				if deps.Scans != nil {
					scanHandler := handler.NewScanHandler(deps.Scans)
					r.Route("/admin/scans", func(r chi.Router) {
						r.Use(customMiddleware.RequireAdmin)
						r.Get("/", scanHandler.List)
						r.Post("/{cadence}/run", scanHandler.Run)
					})
				}
			})
		})
	})

	return r
}
