package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines admin data access
type Repository interface {
	// Admin users
	CreateAdmin(ctx context.Context, admin *AdminUser) error
	GetAdminByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)
	GetAdminByEmail(ctx context.Context, email string) (*AdminUser, error)
	ListAdmins(ctx context.Context) ([]*AdminUser, error)
	UpdateAdmin(ctx context.Context, admin *AdminUser) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, ip string) error

	// Audit logs
	CreateAuditLog(ctx context.Context, entry *AuditLog) error
	ListAuditLogs(ctx context.Context, filter AuditFilter) ([]*AuditLog, int, error)

	// Analytics
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

// AuditFilter for filtering audit logs
type AuditFilter struct {
	AdminID    *uuid.UUID
	ActionType *string
	TargetType *string
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates admin repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Admin users

func (r *repository) CreateAdmin(ctx context.Context, admin *AdminUser) error {
	query := `
		INSERT INTO admin_users (id, email, password_hash, role, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		admin.ID,
		admin.Email,
		admin.PasswordHash,
		admin.Role,
		admin.Name,
		admin.IsActive,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	return err
}

func (r *repository) GetAdminByID(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	query := `SELECT * FROM admin_users WHERE id = $1`
	var admin AdminUser
	err := r.db.GetContext(ctx, &admin, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *repository) GetAdminByEmail(ctx context.Context, email string) (*AdminUser, error) {
	query := `SELECT * FROM admin_users WHERE email = $1`
	var admin AdminUser
	err := r.db.GetContext(ctx, &admin, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *repository) ListAdmins(ctx context.Context) ([]*AdminUser, error) {
	query := `SELECT * FROM admin_users ORDER BY created_at DESC`
	var admins []*AdminUser
	err := r.db.SelectContext(ctx, &admins, query)
	return admins, err
}

func (r *repository) UpdateAdmin(ctx context.Context, admin *AdminUser) error {
	query := `
		UPDATE admin_users SET
			name = $2, role = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		admin.ID,
		admin.Name,
		admin.Role,
		admin.IsActive,
	)
	return err
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, ip string) error {
	query := `UPDATE admin_users SET last_login_at = NOW(), last_login_ip = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, ip)
	return err
}

// Audit logs

func (r *repository) CreateAuditLog(ctx context.Context, entry *AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, admin_id, admin_email, action_type, target_type, target_id, reason, before_state, after_state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.AdminID,
		entry.AdminEmail,
		entry.ActionType,
		entry.TargetType,
		entry.TargetID,
		entry.Reason,
		entry.BeforeState,
		entry.AfterState,
		entry.CreatedAt,
	)
	return err
}

func (r *repository) ListAuditLogs(ctx context.Context, filter AuditFilter) ([]*AuditLog, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}

	if filter.AdminID != nil {
		args = append(args, *filter.AdminID)
		where += fmt.Sprintf(" AND admin_id = $%d", len(args))
	}
	if filter.ActionType != nil {
		args = append(args, *filter.ActionType)
		where += fmt.Sprintf(" AND action_type = $%d", len(args))
	}
	if filter.TargetType != nil {
		args = append(args, *filter.TargetType)
		where += fmt.Sprintf(" AND target_type = $%d", len(args))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM audit_logs`+where, args...); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	args = append(args, limit, offset)
	query := `SELECT * FROM audit_logs` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	var logs []*AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// Analytics

// Banned accounts are modeled by users.status, the column the ban cascade
// writes; the counter must follow the same predicate.
const bannedUsersCountQuery = `SELECT COUNT(*) FROM users WHERE status = 'banned'`

func (r *repository) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	// Queue stats
	r.db.GetContext(ctx, &stats.Queue.Pending, `SELECT COUNT(*) FROM queue_items WHERE status = 'pending'`)
	r.db.GetContext(ctx, &stats.Queue.Claimed, `SELECT COUNT(*) FROM queue_items WHERE status = 'claimed'`)
	r.db.GetContext(ctx, &stats.Queue.HighPriority, `SELECT COUNT(*) FROM queue_items WHERE status IN ('pending', 'claimed') AND priority >= 7`)
	r.db.GetContext(ctx, &stats.Queue.ResolvedToday, `SELECT COUNT(*) FROM queue_items WHERE status IN ('resolved', 'dismissed') AND resolved_at >= CURRENT_DATE`)

	// User stats
	r.db.GetContext(ctx, &stats.Users.Total, `SELECT COUNT(*) FROM users`)
	r.db.GetContext(ctx, &stats.Users.Banned, bannedUsersCountQuery)
	r.db.GetContext(ctx, &stats.Users.FlaggedOrganizers, `SELECT COUNT(*) FROM users WHERE role = 'organizer' AND is_flagged = true`)
	r.db.GetContext(ctx, &stats.Users.NewThisWeek, `SELECT COUNT(*) FROM users WHERE created_at >= CURRENT_DATE - INTERVAL '7 days'`)

	// Hackathon stats
	r.db.GetContext(ctx, &stats.Hackathons.Total, `SELECT COUNT(*) FROM hackathons`)
	r.db.GetContext(ctx, &stats.Hackathons.Published, `SELECT COUNT(*) FROM hackathons WHERE status = 'published'`)
	r.db.GetContext(ctx, &stats.Hackathons.PendingReview, `SELECT COUNT(*) FROM hackathons WHERE status = 'pending_review'`)
	r.db.GetContext(ctx, &stats.Hackathons.Unpublished, `SELECT COUNT(*) FROM hackathons WHERE status = 'unpublished'`)

	return stats, nil
}
