package moderation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// UserRole on the platform
type UserRole string

const (
	RoleParticipant UserRole = "participant"
	RoleOrganizer   UserRole = "organizer"
)

// UserStatus of a platform account
type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)

// User is the moderation view of a platform account
type User struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	Email     string         `db:"email" json:"email"`
	Name      string         `db:"name" json:"name"`
	Role      UserRole       `db:"role" json:"role"`
	Status    UserStatus     `db:"status" json:"status"`
	IsFlagged bool           `db:"is_flagged" json:"is_flagged"`
	BanReason sql.NullString `db:"ban_reason" json:"ban_reason,omitempty"`
	BannedAt  sql.NullTime   `db:"banned_at" json:"banned_at,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// IsBanned reports whether the account is currently banned
func (u *User) IsBanned() bool {
	return u.Status == UserStatusBanned
}

// BanRecord summarizes one executed ban cascade. One row is written
// per ban regardless of how many sub-actions succeeded.
type BanRecord struct {
	ID                    uuid.UUID      `db:"id" json:"id"`
	UserID                uuid.UUID      `db:"user_id" json:"user_id"`
	AdminID               uuid.UUID      `db:"admin_id" json:"admin_id"`
	Reason                string         `db:"reason" json:"reason"`
	HackathonsUnpublished int            `db:"hackathons_unpublished" json:"hackathons_unpublished"`
	TeamsRemoved          int            `db:"teams_removed" json:"teams_removed"`
	NotificationsSent     int            `db:"notifications_sent" json:"notifications_sent"`
	FailedActions         int            `db:"failed_actions" json:"failed_actions"`
	FailureDetail         sql.NullString `db:"failure_detail" json:"failure_detail,omitempty"`
	CreatedAt             time.Time      `db:"created_at" json:"created_at"`
}
