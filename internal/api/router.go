package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/irrigation-dashboard/internal/panel"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Handle("/panel/*", http.StripPrefix("/panel", panel.Handler(s.cfg.PanelDir)))
	r.Handle("/panel", http.RedirectHandler("/panel/", http.StatusMovedPermanently))
	r.Handle("/", http.RedirectHandler("/panel/", http.StatusFound))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/state", s.handleState)

		r.Put("/connection", s.handleConnect)
		r.Delete("/connection", s.handleDisconnect)

		r.Route("/actuators/{id}", func(r chi.Router) {
			r.Post("/state", s.handleSetActuator)
			r.Put("/schedule", s.handleUpdateSchedule)
		})

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}
