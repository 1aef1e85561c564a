package admin

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role represents admin role
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleModerator  Role = "moderator"
	RoleSupport    Role = "support"
)

// AdminUser represents an admin panel user
type AdminUser struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         Role           `db:"role" json:"role"`
	Name         string         `db:"name" json:"name"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	LastLoginAt  sql.NullTime   `db:"last_login_at" json:"last_login_at,omitempty"`
	LastLoginIP  sql.NullString `db:"last_login_ip" json:"last_login_ip,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// HasPermission checks if admin has a specific permission
func (a *AdminUser) HasPermission(perm Permission) bool {
	permissions, ok := RolePermissions[a.Role]
	if !ok {
		return false
	}
	for _, p := range permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// AuditLog is one immutable record of a state-changing admin action
type AuditLog struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	AdminID     uuid.NullUUID   `db:"admin_id" json:"admin_id,omitempty"`
	AdminEmail  string          `db:"admin_email" json:"admin_email"`
	ActionType  string          `db:"action_type" json:"action_type"`
	TargetType  string          `db:"target_type" json:"target_type"`
	TargetID    uuid.NullUUID   `db:"target_id" json:"target_id,omitempty"`
	Reason      sql.NullString  `db:"reason" json:"reason,omitempty"`
	BeforeState json.RawMessage `db:"before_state" json:"before_state,omitempty"`
	AfterState  json.RawMessage `db:"after_state" json:"after_state,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
