package moderation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackhub/hackhub-admin-api/internal/domain/admin"
	"github.com/hackhub/hackhub-admin-api/internal/pkg/response"
	"github.com/hackhub/hackhub-admin-api/internal/pkg/validator"
)

// Handler handles user moderation endpoints
type Handler struct {
	service *Service
}

// NewHandler creates moderation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetUser handles GET /admin/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, UserResponseFromEntity(user))
}

// BanUser handles POST /admin/users/{id}/ban
func (h *Handler) BanUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req BanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	adminID := admin.GetAdminID(r.Context())

	summary, err := h.service.BanUser(r.Context(), adminID, id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, "User not found")
		case errors.Is(err, ErrAlreadyBanned):
			response.PolicyViolation(w, "User is already banned")
		case errors.Is(err, ErrBanConflict):
			response.Conflict(w, "User state changed, refresh and retry")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, summary)
}

// UnbanUser handles POST /admin/users/{id}/unban
func (h *Handler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req UnbanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	adminID := admin.GetAdminID(r.Context())

	user, err := h.service.UnbanUser(r.Context(), adminID, id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, "User not found")
		case errors.Is(err, ErrNotBanned):
			response.PolicyViolation(w, "User is not banned")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, UserResponseFromEntity(user))
}

// TeamMemberships handles GET /admin/users/{id}/teams
func (h *Handler) TeamMemberships(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	memberships, err := h.service.TeamMemberships(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, memberships)
}

// Notifications handles GET /admin/users/{id}/notifications
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	notifications, err := h.service.UserNotifications(r.Context(), id, limit, offset)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, notifications)
}

// BanHistory handles GET /admin/users/{id}/bans
func (h *Handler) BanHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	records, err := h.service.BanHistory(r.Context(), id, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*BanRecordResponse, len(records))
	for i, rec := range records {
		items[i] = BanRecordResponseFromEntity(rec)
	}

	response.OK(w, items)
}
