package hackathon

import (
	"github.com/go-chi/chi/v5"

	"github.com/hackhub/hackhub-admin-api/internal/domain/admin"
)

// Routes returns hackathon review router
func (h *Handler) Routes(jwtSvc *admin.JWTService, adminSvc *admin.Service) chi.Router {
	r := chi.NewRouter()
	r.Use(admin.AuthMiddleware(jwtSvc, adminSvc))

	r.Group(func(r chi.Router) {
		r.Use(admin.RequirePermission(admin.PermViewHackathons))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Get("/organizers/{id}/stats", h.OrganizerStats)
	})

	r.Group(func(r chi.Router) {
		r.Use(admin.RequirePermission(admin.PermReviewHackathons))
		r.Post("/{id}/evaluate", h.Evaluate)
		r.Post("/{id}/review", h.Review)
	})

	return r
}
