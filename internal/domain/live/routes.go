package live

import (
	"github.com/go-chi/chi/v5"

	"github.com/hackhub/hackhub-admin-api/internal/domain/admin"
)

// Routes returns live feed router
func (h *Handler) Routes(jwtSvc *admin.JWTService, adminSvc *admin.Service) chi.Router {
	r := chi.NewRouter()
	r.Use(admin.AuthMiddleware(jwtSvc, adminSvc))

	r.Group(func(r chi.Router) {
		r.Use(admin.RequirePermission(admin.PermQueueView))
		r.Get("/", h.ServeWS)
	})

	return r
}
