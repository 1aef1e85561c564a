package moderation

import (
	"github.com/go-chi/chi/v5"

	"github.com/hackhub/hackhub-admin-api/internal/domain/admin"
)

// Routes returns user moderation router
func (h *Handler) Routes(jwtSvc *admin.JWTService, adminSvc *admin.Service) chi.Router {
	r := chi.NewRouter()
	r.Use(admin.AuthMiddleware(jwtSvc, adminSvc))

	r.Group(func(r chi.Router) {
		r.Use(admin.RequirePermission(admin.PermViewUsers))
		r.Get("/{id}", h.GetUser)
		r.Get("/{id}/bans", h.BanHistory)
		r.Get("/{id}/teams", h.TeamMemberships)
		r.Get("/{id}/notifications", h.Notifications)
	})

	r.Group(func(r chi.Router) {
		r.Use(admin.RequirePermission(admin.PermBanUsers))
		r.Post("/{id}/ban", h.BanUser)
		r.Post("/{id}/unban", h.UnbanUser)
	})

	return r
}
