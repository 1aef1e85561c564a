package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/hackhub/hackhub-admin-api/internal/pkg/password"
)

const statsCacheKey = "admin:dashboard:stats"

// Service handles admin business logic and implements the audit sink consumed
// by the queue and moderation services.
type Service struct {
	repo          Repository
	cache         *redis.Client // optional, nil disables stats caching
	statsCacheTTL time.Duration
}

// NewService creates admin service
func NewService(repo Repository, cache *redis.Client, statsCacheTTL time.Duration) *Service {
	return &Service{repo: repo, cache: cache, statsCacheTTL: statsCacheTTL}
}

// --- Authentication ---

// Login authenticates admin and returns the account
func (s *Service) Login(ctx context.Context, email, pwd, ip string) (*AdminUser, error) {
	adminUser, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil || adminUser == nil {
		return nil, ErrInvalidCredentials
	}

	if !adminUser.IsActive {
		return nil, ErrAdminInactive
	}

	if !password.Verify(pwd, adminUser.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	_ = s.repo.UpdateLastLogin(ctx, adminUser.ID, ip)

	return adminUser, nil
}

// GetAdminByID returns admin by ID
func (s *Service) GetAdminByID(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	adminUser, err := s.repo.GetAdminByID(ctx, id)
	if err != nil || adminUser == nil {
		return nil, ErrAdminNotFound
	}
	return adminUser, nil
}

// --- Admin Management ---

// CreateAdmin creates a new admin user
func (s *Service) CreateAdmin(ctx context.Context, actorID uuid.UUID, req *CreateAdminRequest) (*AdminUser, error) {
	existing, _ := s.repo.GetAdminByEmail(ctx, req.Email)
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	adminUser := &AdminUser{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         Role(req.Role),
		Name:         req.Name,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateAdmin(ctx, adminUser); err != nil {
		return nil, err
	}

	s.LogActionWithReason(ctx, actorID, "admin_created", "admin", adminUser.ID, "", nil,
		map[string]string{"email": adminUser.Email, "role": string(adminUser.Role)})

	return adminUser, nil
}

// UpdateAdmin updates admin user
func (s *Service) UpdateAdmin(ctx context.Context, actorID, targetID uuid.UUID, req *UpdateAdminRequest) (*AdminUser, error) {
	adminUser, err := s.repo.GetAdminByID(ctx, targetID)
	if err != nil || adminUser == nil {
		return nil, ErrAdminNotFound
	}

	actor, _ := s.repo.GetAdminByID(ctx, actorID)
	if actor != nil && !CanManage(actor.Role, adminUser.Role) {
		return nil, ErrCannotManageRole
	}

	before := map[string]interface{}{"name": adminUser.Name, "role": adminUser.Role, "is_active": adminUser.IsActive}

	if req.Name != nil {
		adminUser.Name = *req.Name
	}
	if req.Role != nil {
		adminUser.Role = Role(*req.Role)
	}
	if req.IsActive != nil {
		adminUser.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateAdmin(ctx, adminUser); err != nil {
		return nil, err
	}

	s.LogActionWithReason(ctx, actorID, "admin_updated", "admin", adminUser.ID, "", before,
		map[string]interface{}{"name": adminUser.Name, "role": adminUser.Role, "is_active": adminUser.IsActive})

	return adminUser, nil
}

// ListAdmins returns all admins
func (s *Service) ListAdmins(ctx context.Context) ([]*AdminUser, error) {
	return s.repo.ListAdmins(ctx)
}

// --- Audit Logs ---

// ListAuditLogs returns audit logs
func (s *Service) ListAuditLogs(ctx context.Context, filter AuditFilter) ([]*AuditLog, int, error) {
	return s.repo.ListAuditLogs(ctx, filter)
}

// LogActionWithReason appends an audit record. Best effort: a failed append
// is logged but never fails the operation it records.
func (s *Service) LogActionWithReason(ctx context.Context, adminID uuid.UUID, action, targetType string, targetID uuid.UUID, reason string, beforeState, afterState interface{}) {
	email := ""
	if ctxEmail, ok := ctx.Value(ContextAdminEmail).(string); ok {
		email = ctxEmail
	} else if adminUser, _ := s.repo.GetAdminByID(ctx, adminID); adminUser != nil {
		email = adminUser.Email
	}

	beforeJSON, _ := json.Marshal(beforeState)
	afterJSON, _ := json.Marshal(afterState)

	entry := &AuditLog{
		ID:          uuid.New(),
		AdminID:     uuid.NullUUID{UUID: adminID, Valid: adminID != uuid.Nil},
		AdminEmail:  email,
		ActionType:  action,
		TargetType:  targetType,
		TargetID:    uuid.NullUUID{UUID: targetID, Valid: targetID != uuid.Nil},
		Reason:      sql.NullString{String: reason, Valid: reason != ""},
		BeforeState: beforeJSON,
		AfterState:  afterJSON,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to create audit log")
	}
}

// --- Analytics ---

// GetDashboardStats returns dashboard statistics, served from the Redis cache
// when fresh.
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var stats DashboardStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.repo.GetDashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, payload, s.statsCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("Failed to cache dashboard stats")
			}
		}
	}

	return stats, nil
}
