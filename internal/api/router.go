package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api", func(r chi.Router) {
		// Health check and client bootstrap (no auth required)
		r.Get("/health", s.handleHealth)
		r.Get("/config", s.handleClientConfig)

		// Auth endpoints (no auth required)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/me", s.handleMe)

			r.Post("/commands", s.handleCommand)

			r.Route("/devices", func(r chi.Router) {
				r.Get("/", s.handleListDevices)
				r.Post("/", s.handleCreateDevice)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetDevice)
					r.Delete("/", s.handleDeleteDevice)
					r.Put("/state", s.handleSetDeviceState)
					r.Put("/automation", s.handleSetAutomation)
					r.Post("/toggle", s.handleToggleDevice)
				})
			})

			r.Route("/logs", func(r chi.Router) {
				r.Get("/", s.handleListLogs)
				r.Delete("/", s.handleClearLogs)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", s.handleListSettings)
				r.Get("/{name}", s.handleGetSetting)
				r.Put("/{name}", s.handleSetSetting)
			})

		})

		// WebSocket push. Browsers cannot set headers on WebSocket dials,
		// so the handler validates a token query parameter itself.
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
