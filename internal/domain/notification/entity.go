package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type categorizes notifications
type Type string

const (
	TypeAccountBanned    Type = "account_banned"
	TypeTeamMemberBanned Type = "team_member_banned"
	TypeHackathonRemoved Type = "hackathon_removed"
	TypeModeration       Type = "moderation"
)

// Notification is a durable message delivered to a user
type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Type      Type      `db:"type" json:"type"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
