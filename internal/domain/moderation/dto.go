package moderation

import (
	"time"

	"github.com/google/uuid"
)

// BanRequest is the payload for banning a user
type BanRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// UnbanRequest is the payload for lifting a ban
type UnbanRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// BanSummary reports what the ban cascade actually did
type BanSummary struct {
	UserID                uuid.UUID   `json:"user_id"`
	HackathonsUnpublished int         `json:"hackathons_unpublished"`
	TeamsRemoved          int         `json:"teams_removed"`
	NotificationsSent     int         `json:"notifications_sent"`
	AffectedUsers         []uuid.UUID `json:"affected_users"`

	failures []string
}

// Failures returns per-sub-action failure descriptions, empty when
// the whole cascade succeeded.
func (s *BanSummary) Failures() []string {
	return append([]string(nil), s.failures...)
}

// UserResponse is the moderation view of an account
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      UserRole   `json:"role"`
	Status    UserStatus `json:"status"`
	IsFlagged bool       `json:"is_flagged"`
	BanReason *string    `json:"ban_reason,omitempty"`
	BannedAt  *time.Time `json:"banned_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// UserResponseFromEntity converts entity to response DTO
func UserResponseFromEntity(u *User) *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		IsFlagged: u.IsFlagged,
		CreatedAt: u.CreatedAt,
	}
	if u.BanReason.Valid {
		resp.BanReason = &u.BanReason.String
	}
	if u.BannedAt.Valid {
		resp.BannedAt = &u.BannedAt.Time
	}
	return resp
}

// BanRecordResponse is the API shape of a ban record
type BanRecordResponse struct {
	ID                    uuid.UUID `json:"id"`
	UserID                uuid.UUID `json:"user_id"`
	AdminID               uuid.UUID `json:"admin_id"`
	Reason                string    `json:"reason"`
	HackathonsUnpublished int       `json:"hackathons_unpublished"`
	TeamsRemoved          int       `json:"teams_removed"`
	NotificationsSent     int       `json:"notifications_sent"`
	FailedActions         int       `json:"failed_actions"`
	CreatedAt             time.Time `json:"created_at"`
}

// BanRecordResponseFromEntity converts entity to response DTO
func BanRecordResponseFromEntity(r *BanRecord) *BanRecordResponse {
	return &BanRecordResponse{
		ID:                    r.ID,
		UserID:                r.UserID,
		AdminID:               r.AdminID,
		Reason:                r.Reason,
		HackathonsUnpublished: r.HackathonsUnpublished,
		TeamsRemoved:          r.TeamsRemoved,
		NotificationsSent:     r.NotificationsSent,
		FailedActions:         r.FailedActions,
		CreatedAt:             r.CreatedAt,
	}
}
