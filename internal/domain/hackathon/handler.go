package hackathon

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

// Handler handles hackathon moderation endpoints
type Handler struct {
	service *Service
}

// NewHandler creates hackathon handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /admin/hackathons
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := Status(r.URL.Query().Get("status"))
	if status == "" {
		status = StatusPendingReview
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	hackathons, err := h.service.ListByStatus(r.Context(), status, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*HackathonResponse, len(hackathons))
	for i, hk := range hackathons {
		items[i] = HackathonResponseFromEntity(hk)
	}

	response.OK(w, items)
}

// Get handles GET /admin/hackathons/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid hackathon ID")
		return
	}

	hk, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrHackathonNotFound) {
			response.NotFound(w, "Hackathon not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, HackathonResponseFromEntity(hk))
}

// Evaluate handles POST /admin/hackathons/{id}/evaluate
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid hackathon ID")
		return
	}

	adminID := admin.GetAdminID(r.Context())

	result, err := h.service.EvaluateSubmission(r.Context(), adminID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrHackathonNotFound):
			response.NotFound(w, "Hackathon not found")
		case errors.Is(err, ErrOrganizerNotFound):
			response.NotFound(w, "Organizer not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Review handles POST /admin/hackathons/{id}/review
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid hackathon ID")
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	adminID := admin.GetAdminID(r.Context())

	hk, err := h.service.Review(r.Context(), adminID, id, req.Approve, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrHackathonNotFound):
			response.NotFound(w, "Hackathon not found")
		case errors.Is(err, ErrNotPendingReview):
			response.PolicyViolation(w, "Hackathon is not pending review")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, HackathonResponseFromEntity(hk))
}

// OrganizerStats handles GET /admin/hackathons/organizers/{id}/stats
func (h *Handler) OrganizerStats(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid organizer ID")
		return
	}

	stats, err := h.service.OrganizerApprovalStats(r.Context(), id)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, stats)
}
