package hackathon

import (
	"time"

	"github.com/google/uuid"
)

// EvaluationResult describes the outcome of a submission evaluation
type EvaluationResult struct {
	HackathonID    uuid.UUID `json:"hackathon_id"`
	RequiresReview bool      `json:"requires_review"`
	Status         string    `json:"status"`
}

// ApprovalStats summarizes an organizer's submission history
type ApprovalStats struct {
	OrganizerID  uuid.UUID `json:"organizer_id"`
	Approved     int       `json:"approved"`
	Total        int       `json:"total"`
	ApprovalRate int       `json:"approval_rate"`
}

// ReviewRequest for POST /admin/hackathons/{id}/review
type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note,omitempty" validate:"max=1000"`
}

// HackathonResponse represents a hackathon in API responses
type HackathonResponse struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	OrganizerID         uuid.UUID `json:"organizer_id"`
	Status              string    `json:"status"`
	AutoApprovalEnabled bool      `json:"auto_approval_enabled"`
	AdminNote           *string   `json:"admin_note,omitempty"`
	PublishedAt         *string   `json:"published_at,omitempty"`
	CreatedAt           string    `json:"created_at"`
	UpdatedAt           string    `json:"updated_at"`
}

// HackathonResponseFromEntity converts entity to response
func HackathonResponseFromEntity(h *Hackathon) *HackathonResponse {
	resp := &HackathonResponse{
		ID:                  h.ID,
		Title:               h.Title,
		OrganizerID:         h.OrganizerID,
		Status:              string(h.Status),
		AutoApprovalEnabled: h.AutoApprovalEnabled,
		CreatedAt:           h.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           h.UpdatedAt.Format(time.RFC3339),
	}

	if h.AdminNote.Valid {
		resp.AdminNote = &h.AdminNote.String
	}
	if h.PublishedAt.Valid {
		s := h.PublishedAt.Time.Format(time.RFC3339)
		resp.PublishedAt = &s
	}

	return resp
}
