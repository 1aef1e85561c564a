package queue

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ItemType drives the base priority weight of a queue item
type ItemType string

const (
	ItemTypeReport    ItemType = "report"
	ItemTypeUser      ItemType = "user"
	ItemTypeHackathon ItemType = "hackathon"
	ItemTypeProject   ItemType = "project"
)

// Status represents the lifecycle state of a queue item
type Status string

const (
	StatusPending   Status = "pending"
	StatusClaimed   Status = "claimed"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
)

// IsTerminal reports whether no further transitions are permitted
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusDismissed
}

// QueueItem represents one unit of moderation work.
// claimed_by is non-null exactly when status is claimed; once status is
// resolved or dismissed no field changes further.
type QueueItem struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	ItemType    ItemType       `db:"item_type" json:"item_type"`
	Title       string         `db:"title" json:"title"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	TargetType  string         `db:"target_type" json:"target_type"`
	TargetID    uuid.UUID      `db:"target_id" json:"target_id"`
	Priority    int            `db:"priority" json:"priority"`
	ReportCount int            `db:"report_count" json:"report_count"`
	ReporterIDs pq.StringArray `db:"reporter_ids" json:"reporter_ids"`
	Status      Status         `db:"status" json:"status"`
	ClaimedBy   uuid.NullUUID  `db:"claimed_by" json:"claimed_by,omitempty"`
	ClaimedAt   sql.NullTime   `db:"claimed_at" json:"claimed_at,omitempty"`
	Resolution  sql.NullString `db:"resolution" json:"resolution,omitempty"`
	ResolvedBy  uuid.NullUUID  `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt  sql.NullTime   `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// IsTerminal reports whether the item reached a terminal status
func (i *QueueItem) IsTerminal() bool {
	return i.Status.IsTerminal()
}

// HasReporter reports whether the given reporter already reported this item
func (i *QueueItem) HasReporter(reporterID uuid.UUID) bool {
	id := reporterID.String()
	for _, r := range i.ReporterIDs {
		if r == id {
			return true
		}
	}
	return false
}
