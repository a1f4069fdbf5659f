package api

import (
	"github.com/go-chi/chi/v5"
)

// setupAPIRoutes sets up the backend routes consumed by the agent
func (s *RESTServer) setupAPIRoutes(r chi.Router) {
	r.Get("/health", s.HandleHealth)

	// Auth routes (public)
	r.Post("/signup", s.HandleSignup)
	r.Post("/login_email/", s.HandleLoginEmail)
	r.Post("/login_username/", s.HandleLoginUsername)
	r.Post("/user_by_token", s.HandleUserByToken)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/test_token", s.HandleTestToken)
		r.Post("/change_username", s.HandleChangeUsername)
		r.Post("/change_password", s.HandleChangePassword)
		r.Post("/add_stats", s.HandleAddStats)
		r.Get("/get_stats/{user_id}", s.HandleGetStats)
		r.Post("/add_seen_networks", s.HandleAddSeenNetworks)
	})
}
