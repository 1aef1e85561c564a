package team

import (
	"time"

	"github.com/google/uuid"
)

// MemberRole represents a member's role inside a team
type MemberRole string

const (
	RoleLeader MemberRole = "leader"
	RoleMember MemberRole = "member"
)

// Membership links a user to a team
type Membership struct {
	ID       uuid.UUID  `db:"id" json:"id"`
	TeamID   uuid.UUID  `db:"team_id" json:"team_id"`
	UserID   uuid.UUID  `db:"user_id" json:"user_id"`
	Role     MemberRole `db:"role" json:"role"`
	JoinedAt time.Time  `db:"joined_at" json:"joined_at"`
}
