package team

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines team data access
type Repository interface {
	ListMembershipsByUser(ctx context.Context, userID uuid.UUID) ([]*Membership, error)
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates team repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListMembershipsByUser(ctx context.Context, userID uuid.UUID) ([]*Membership, error) {
	memberships := []*Membership{}
	err := r.db.SelectContext(ctx, &memberships, `
		SELECT * FROM team_members
		WHERE user_id = $1
		ORDER BY joined_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return memberships, nil
}

func (r *repository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM team_members
		WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove member rows: %w", err)
	}
	if rows == 0 {
		return ErrMembershipNotFound
	}

	return nil
}
