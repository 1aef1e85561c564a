package queue

import (
	"time"

	"github.com/google/uuid"
)

// CreateItemRequest for POST /admin/queue/items
type CreateItemRequest struct {
	ItemType      string  `json:"item_type" validate:"required,item_type"`
	Title         string  `json:"title" validate:"required,min=3,max=200"`
	Description   string  `json:"description,omitempty" validate:"max=2000"`
	TargetType    string  `json:"target_type" validate:"required,oneof=user hackathon project comment"`
	TargetID      string  `json:"target_id" validate:"required,uuid"`
	ReporterID    *string `json:"reporter_id,omitempty" validate:"omitempty,uuid"`
	ReporterTrust int     `json:"reporter_trust,omitempty" validate:"gte=0,lte=100"`
}

// ResolveRequest for POST /admin/queue/items/{id}/resolve
type ResolveRequest struct {
	Resolution string `json:"resolution" validate:"required,resolution"`
	Reason     string `json:"reason" validate:"required,min=3,max=1000"`
}

// ItemResponse represents a queue item in API responses
type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ItemType    string    `json:"item_type"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	TargetType  string    `json:"target_type"`
	TargetID    uuid.UUID `json:"target_id"`
	Priority    int       `json:"priority"`
	Band        string    `json:"band"`
	ReportCount int       `json:"report_count"`
	ReporterIDs []string  `json:"reporter_ids"`
	Status      string    `json:"status"`
	ClaimedBy   *string   `json:"claimed_by,omitempty"`
	ClaimedAt   *string   `json:"claimed_at,omitempty"`
	Resolution  *string   `json:"resolution,omitempty"`
	ResolvedBy  *string   `json:"resolved_by,omitempty"`
	ResolvedAt  *string   `json:"resolved_at,omitempty"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// ItemResponseFromEntity converts entity to response
func ItemResponseFromEntity(item *QueueItem) *ItemResponse {
	resp := &ItemResponse{
		ID:          item.ID,
		ItemType:    string(item.ItemType),
		Title:       item.Title,
		TargetType:  item.TargetType,
		TargetID:    item.TargetID,
		Priority:    item.Priority,
		Band:        string(BandFor(item.Priority)),
		ReportCount: item.ReportCount,
		ReporterIDs: item.ReporterIDs,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
	if resp.ReporterIDs == nil {
		resp.ReporterIDs = []string{}
	}

	if item.Description.Valid {
		resp.Description = &item.Description.String
	}
	if item.ClaimedBy.Valid {
		s := item.ClaimedBy.UUID.String()
		resp.ClaimedBy = &s
	}
	if item.ClaimedAt.Valid {
		s := item.ClaimedAt.Time.Format(time.RFC3339)
		resp.ClaimedAt = &s
	}
	if item.Resolution.Valid {
		resp.Resolution = &item.Resolution.String
	}
	if item.ResolvedBy.Valid {
		s := item.ResolvedBy.UUID.String()
		resp.ResolvedBy = &s
	}
	if item.ResolvedAt.Valid {
		s := item.ResolvedAt.Time.Format(time.RFC3339)
		resp.ResolvedAt = &s
	}

	return resp
}

// ListItemsResponse for GET /admin/queue/items
type ListItemsResponse struct {
	Items []*ItemResponse `json:"items"`
	Total int             `json:"total"`
}
