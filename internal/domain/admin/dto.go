package admin

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest for POST /admin/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse after successful login
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	Admin       *AdminResponse `json:"admin"`
}

// AdminResponse represents admin in API
type AdminResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"is_active"`
	Permissions []string  `json:"permissions"`
	LastLoginAt *string   `json:"last_login_at,omitempty"`
	CreatedAt   string    `json:"created_at"`
}

// AdminResponseFromEntity converts entity to response
func AdminResponseFromEntity(a *AdminUser) *AdminResponse {
	resp := &AdminResponse{
		ID:        a.ID,
		Email:     a.Email,
		Role:      string(a.Role),
		Name:      a.Name,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}

	if a.LastLoginAt.Valid {
		s := a.LastLoginAt.Time.Format(time.RFC3339)
		resp.LastLoginAt = &s
	}

	if perms, ok := RolePermissions[a.Role]; ok {
		resp.Permissions = make([]string, len(perms))
		for i, p := range perms {
			resp.Permissions[i] = string(p)
		}
	}

	return resp
}

// CreateAdminRequest for POST /admin/admins
type CreateAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin moderator support"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

// UpdateAdminRequest for PATCH /admin/admins/{id}
type UpdateAdminRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin moderator support"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// DashboardStats aggregates moderation counters for the admin dashboard
type DashboardStats struct {
	Queue struct {
		Pending       int `json:"pending"`
		Claimed       int `json:"claimed"`
		HighPriority  int `json:"high_priority"`
		ResolvedToday int `json:"resolved_today"`
	} `json:"queue"`
	Users struct {
		Total             int `json:"total"`
		Banned            int `json:"banned"`
		FlaggedOrganizers int `json:"flagged_organizers"`
		NewThisWeek       int `json:"new_this_week"`
	} `json:"users"`
	Hackathons struct {
		Total         int `json:"total"`
		Published     int `json:"published"`
		PendingReview int `json:"pending_review"`
		Unpublished   int `json:"unpublished"`
	} `json:"hackathons"`
}
