package hackathon

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines hackathon data access
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Hackathon, error)
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Hackathon, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, note string) error
	Unpublish(ctx context.Context, id uuid.UUID, note string) error
	GetOrganizerFlag(ctx context.Context, organizerID uuid.UUID) (bool, error)
	CountSubmissions(ctx context.Context, organizerID uuid.UUID) (approved int, total int, err error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates hackathon repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Hackathon, error) {
	query := `SELECT * FROM hackathons WHERE id = $1`
	var h Hackathon
	err := r.db.GetContext(ctx, &h, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

func (r *repository) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Hackathon, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT * FROM hackathons WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	var hackathons []*Hackathon
	err := r.db.SelectContext(ctx, &hackathons, query, status, limit, offset)
	return hackathons, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, note string) error {
	query := `
		UPDATE hackathons
		SET status = $2,
		    admin_note = NULLIF($3, ''),
		    published_at = CASE WHEN $2 = 'published' THEN NOW() ELSE published_at END,
		    updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, status, note)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrHackathonNotFound
	}
	return nil
}

// Unpublish is a conditional write: it only transitions hackathons that are
// currently visible, so a repeated cascade cannot clobber a later state.
func (r *repository) Unpublish(ctx context.Context, id uuid.UUID, note string) error {
	query := `
		UPDATE hackathons
		SET status = 'unpublished', admin_note = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('published', 'pending_review')
	`
	res, err := r.db.ExecContext(ctx, query, id, note)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrHackathonNotFound
	}
	return nil
}

func (r *repository) GetOrganizerFlag(ctx context.Context, organizerID uuid.UUID) (bool, error) {
	query := `SELECT is_flagged FROM users WHERE id = $1`
	var flagged bool
	err := r.db.GetContext(ctx, &flagged, query, organizerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrOrganizerNotFound
		}
		return false, err
	}
	return flagged, nil
}

func (r *repository) CountSubmissions(ctx context.Context, organizerID uuid.UUID) (int, int, error) {
	var approved, total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM hackathons WHERE organizer_id = $1 AND status != 'draft'`, organizerID); err != nil {
		return 0, 0, err
	}
	if err := r.db.GetContext(ctx, &approved,
		`SELECT COUNT(*) FROM hackathons WHERE organizer_id = $1 AND status IN ('published', 'archived')`, organizerID); err != nil {
		return 0, 0, err
	}
	return approved, total, nil
}
