package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/notes-saas/notes-server/internal/models"
)

// setupAPIRoutes sets up API v1 routes
func (s *RESTServer) setupAPIRoutes(r chi.Router) {
	// Health check
	r.Get("/health", s.HandleHealth)
	r.Get("/", s.HandleRoot)

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.HandleLogin)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(s.tenantMiddleware)

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Get("/me", s.HandleGetCurrentUser)
			r.With(s.requireRole(models.RoleAdmin)).Get("/", s.HandleListUsers)
			r.With(s.requireRole(models.RoleAdmin)).Post("/invite", s.HandleInviteUser)
		})

		// Tenant plan management
		r.Route("/tenants/{slug}", func(r chi.Router) {
			r.Use(s.requireRole(models.RoleAdmin))
			r.Use(s.requireTenantSlug)
			r.Post("/upgrade", s.HandleUpgradeTenant)
			r.Post("/downgrade", s.HandleDowngradeTenant)
		})

		// Notes
		r.Route("/notes", func(r chi.Router) {
			r.Get("/", s.HandleListNotes)
			r.Post("/", s.HandleCreateNote)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.HandleGetNote)
				r.Put("/", s.HandleUpdateNote)
				r.Delete("/", s.HandleDeleteNote)
			})
		})

		// Audit events
		r.With(s.requireRole(models.RoleAdmin)).Get("/events", s.HandleListEvents)
	})
}
