package queue

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackhub/hackhub-admin-api/internal/domain/admin"
	"github.com/hackhub/hackhub-admin-api/internal/pkg/response"
	"github.com/hackhub/hackhub-admin-api/internal/pkg/validator"
)

// Handler handles moderation queue endpoints
type Handler struct {
	service *Service
}

// NewHandler creates queue handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateItem handles POST /admin/queue/items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, merged, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			response.Conflict(w, "Queue item changed, retry the report")
			return
		}
		response.InternalError(w)
		return
	}

	if merged {
		response.OK(w, ItemResponseFromEntity(item))
		return
	}
	response.Created(w, ItemResponseFromEntity(item))
}

// ListItems handles GET /admin/queue/items
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	filter, ok := parseFilter(r)
	if !ok {
		response.BadRequest(w, "Invalid filter parameters")
		return
	}

	items, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	itemResponses := make([]*ItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = ItemResponseFromEntity(item)
	}

	response.OK(w, &ListItemsResponse{
		Items: itemResponses,
		Total: total,
	})
}

// GetItem handles GET /admin/queue/items/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	item, err := h.service.Get(r.Context(), itemID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, ItemResponseFromEntity(item))
}

// ClaimItem handles POST /admin/queue/items/{id}/claim
func (h *Handler) ClaimItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	adminID := admin.GetAdminID(r.Context())

	item, err := h.service.Claim(r.Context(), adminID, itemID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, ItemResponseFromEntity(item))
}

// ReleaseItem handles POST /admin/queue/items/{id}/release
func (h *Handler) ReleaseItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	adminID := admin.GetAdminID(r.Context())

	item, err := h.service.Release(r.Context(), adminID, itemID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, ItemResponseFromEntity(item))
}

// ResolveItem handles POST /admin/queue/items/{id}/resolve
func (h *Handler) ResolveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	adminID := admin.GetAdminID(r.Context())

	item, err := h.service.Resolve(r.Context(), adminID, itemID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, ItemResponseFromEntity(item))
}

// writeError maps service errors onto the API error taxonomy: policy
// violations explain why the action was blocked, conflicts tell the client
// to refresh and retry.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var policyErr *PolicyError
	switch {
	case errors.Is(err, ErrItemNotFound):
		response.NotFound(w, "Queue item not found")
	case errors.Is(err, ErrConflict):
		response.Conflict(w, "Queue item changed concurrently, refresh and retry")
	case errors.As(err, &policyErr):
		response.PolicyViolation(w, policyErr.Reason)
	default:
		response.InternalError(w)
	}
}

func parseFilter(r *http.Request) (Filter, bool) {
	var filter Filter
	q := r.URL.Query()

	if t := q.Get("type"); t != "" {
		filter.Types = []ItemType{ItemType(t)}
	}
	if s := q.Get("status"); s != "" {
		filter.Statuses = []Status{Status(s)}
	}
	if b := q.Get("band"); b != "" {
		band := Band(b)
		if band != BandHigh && band != BandMedium && band != BandLow {
			return filter, false
		}
		filter.Band = &band
	}
	if c := q.Get("claimed_by"); c != "" {
		id, err := uuid.Parse(c)
		if err != nil {
			return filter, false
		}
		filter.ClaimedBy = &id
	}
	if from := q.Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return filter, false
		}
		filter.From = &t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return filter, false
		}
		filter.To = &t
	}

	return filter, true
}
