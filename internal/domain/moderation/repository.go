package moderation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines moderation data access
type Repository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	Snapshot(ctx context.Context, userID uuid.UUID) (*CascadeInput, error)
	SetBanned(ctx context.Context, userID uuid.UUID, reason string) (*User, error)
	SetActive(ctx context.Context, userID uuid.UUID) (*User, error)
	CreateBanRecord(ctx context.Context, record *BanRecord) error
	ListBanRecords(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*BanRecord, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates moderation repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Snapshot gathers the facts a ban cascade needs in one pass: the
// user's role, the hackathons they organize that are still live, the
// teams they belong to, and the distinct teammates sharing those teams.
func (r *repository) Snapshot(ctx context.Context, userID uuid.UUID) (*CascadeInput, error) {
	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	in := &CascadeInput{
		UserID:      userID,
		IsOrganizer: user.Role == RoleOrganizer,
	}

	if in.IsOrganizer {
		err = r.db.SelectContext(ctx, &in.ActiveHackathonIDs, `
			SELECT id FROM hackathons
			WHERE organizer_id = $1 AND status IN ('published', 'pending_review')
			ORDER BY created_at ASC`, userID)
		if err != nil {
			return nil, fmt.Errorf("snapshot hackathons: %w", err)
		}
	}

	err = r.db.SelectContext(ctx, &in.TeamIDs, `
		SELECT team_id FROM team_members
		WHERE user_id = $1
		ORDER BY joined_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot teams: %w", err)
	}

	err = r.db.SelectContext(ctx, &in.AffectedUserIDs, `
		SELECT DISTINCT tm.user_id FROM team_members tm
		WHERE tm.team_id IN (SELECT team_id FROM team_members WHERE user_id = $1)
		  AND tm.user_id != $1
		ORDER BY tm.user_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot affected users: %w", err)
	}

	return in, nil
}

// SetBanned flips an active account to banned. The status predicate
// makes the write conditional: a concurrent ban of the same user wins
// exactly once, the loser gets ErrBanConflict.
func (r *repository) SetBanned(ctx context.Context, userID uuid.UUID, reason string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		UPDATE users
		SET status = 'banned', ban_reason = $2, banned_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING *`, userID, reason)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, r.banConflictOrMissing(ctx, userID)
		}
		return nil, fmt.Errorf("set banned: %w", err)
	}
	return &u, nil
}

// SetActive reverses a ban
func (r *repository) SetActive(ctx context.Context, userID uuid.UUID) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		UPDATE users
		SET status = 'active', ban_reason = NULL, banned_at = NULL, updated_at = NOW()
		WHERE id = $1 AND status = 'banned'
		RETURNING *`, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			if _, getErr := r.GetUser(ctx, userID); getErr != nil {
				return nil, getErr
			}
			return nil, ErrNotBanned
		}
		return nil, fmt.Errorf("set active: %w", err)
	}
	return &u, nil
}

func (r *repository) banConflictOrMissing(ctx context.Context, userID uuid.UUID) error {
	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsBanned() {
		return ErrAlreadyBanned
	}
	return ErrBanConflict
}

func (r *repository) CreateBanRecord(ctx context.Context, record *BanRecord) error {
	query := `
		INSERT INTO ban_records (
			user_id, admin_id, reason,
			hackathons_unpublished, teams_removed, notifications_sent,
			failed_actions, failure_detail
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		record.UserID, record.AdminID, record.Reason,
		record.HackathonsUnpublished, record.TeamsRemoved, record.NotificationsSent,
		record.FailedActions, record.FailureDetail,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("create ban record: %w", err)
	}
	return nil
}

func (r *repository) ListBanRecords(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*BanRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	records := []*BanRecord{}
	err := r.db.SelectContext(ctx, &records, `
		SELECT * FROM ban_records
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ban records: %w", err)
	}
	return records, nil
}
