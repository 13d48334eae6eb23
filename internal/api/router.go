package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(apiHandler *APIHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling
	r.Use(apiHandler.metrics.Instrument)

	// Public routes
	r.Get("/health", apiHandler.HealthHandler)
	r.Method(http.MethodGet, "/metrics", apiHandler.metrics.Handler())
	r.Post("/auth/register", apiHandler.RegisterHandler)
	r.Post("/auth/login", apiHandler.LoginHandler)

	// User-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(apiHandler.JWTAuthMiddleware)

		r.Get("/auth/validate", apiHandler.ValidateHandler)
		r.Post("/auth/logout", apiHandler.LogoutHandler)

		r.Post("/generate", apiHandler.GenerateHandler)
		r.Get("/usage", apiHandler.UsageHandler)
		r.Get("/projects", apiHandler.ListProjectsHandler)

		r.Route("/project/{projectID}", func(r chi.Router) {
			r.Get("/", apiHandler.GetProjectHandler)
			r.Delete("/", apiHandler.DeleteProjectHandler)
			r.Post("/chat", apiHandler.ChatHandler)
			r.Get("/conversations", apiHandler.ConversationsHandler)
		})
	})

	return r
}
