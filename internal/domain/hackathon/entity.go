package hackathon

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents hackathon lifecycle status
type Status string

const (
	StatusDraft         Status = "draft"
	StatusPendingReview Status = "pending_review"
	StatusPublished     Status = "published"
	StatusUnpublished   Status = "unpublished"
	StatusArchived      Status = "archived"
)

// Hackathon represents a hackathon listing
type Hackathon struct {
	ID                  uuid.UUID      `db:"id" json:"id"`
	Title               string         `db:"title" json:"title"`
	OrganizerID         uuid.UUID      `db:"organizer_id" json:"organizer_id"`
	Status              Status         `db:"status" json:"status"`
	AutoApprovalEnabled bool           `db:"auto_approval_enabled" json:"auto_approval_enabled"`
	AdminNote           sql.NullString `db:"admin_note" json:"admin_note,omitempty"`
	PublishedAt         sql.NullTime   `db:"published_at" json:"published_at,omitempty"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}
