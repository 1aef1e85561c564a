package queue

import (
	"github.com/go-chi/chi/v5"

	"github.com/hackhub/hackhub-admin-api/internal/domain/admin"
)

// Routes returns moderation queue router
func (h *Handler) Routes(jwtSvc *admin.JWTService, adminSvc *admin.Service) chi.Router {
	r := chi.NewRouter()
	r.Use(admin.AuthMiddleware(jwtSvc, adminSvc))

	r.Route("/items", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(admin.RequirePermission(admin.PermQueueView))
			r.Get("/", h.ListItems)
			r.Get("/{id}", h.GetItem)
		})

		r.Group(func(r chi.Router) {
			r.Use(admin.RequirePermission(admin.PermQueueSubmit))
			r.Post("/", h.CreateItem)
		})

		r.Group(func(r chi.Router) {
			r.Use(admin.RequirePermission(admin.PermQueueClaim))
			r.Post("/{id}/claim", h.ClaimItem)
			r.Post("/{id}/release", h.ReleaseItem)
		})

		r.Group(func(r chi.Router) {
			r.Use(admin.RequirePermission(admin.PermQueueResolve))
			r.Post("/{id}/resolve", h.ResolveItem)
		})
	})

	return r
}
