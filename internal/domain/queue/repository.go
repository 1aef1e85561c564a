package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines queue data access.
//
// Claim, Release and Resolve are conditional writes: the expected prior claim
// state is part of the UPDATE predicate, so two concurrent attempts on the
// same item produce exactly one success. A write whose predicate no longer
// holds returns ErrConflict.
type Repository interface {
	Create(ctx context.Context, item *QueueItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*QueueItem, error)
	FindOpenByTarget(ctx context.Context, targetType string, targetID uuid.UUID) (*QueueItem, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*QueueItem, error)
	Count(ctx context.Context, filter Filter) (int, error)
	MergeReport(ctx context.Context, item *QueueItem) error
	Claim(ctx context.Context, id, adminID uuid.UUID) (*QueueItem, error)
	Release(ctx context.Context, id, adminID uuid.UUID) (*QueueItem, error)
	Resolve(ctx context.Context, id, adminID uuid.UUID, status Status, resolution string) (*QueueItem, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates queue repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, item *QueueItem) error {
	query := `
		INSERT INTO queue_items (id, item_type, title, description, target_type, target_id,
		                         priority, report_count, reporter_ids, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.ItemType,
		item.Title,
		item.Description,
		item.TargetType,
		item.TargetID,
		item.Priority,
		item.ReportCount,
		item.ReporterIDs,
		item.Status,
		item.CreatedAt,
		item.UpdatedAt,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*QueueItem, error) {
	query := `SELECT * FROM queue_items WHERE id = $1`
	var item QueueItem
	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// FindOpenByTarget returns the non-terminal item for a target, if any.
// Duplicate reports for the same target merge into this item.
func (r *repository) FindOpenByTarget(ctx context.Context, targetType string, targetID uuid.UUID) (*QueueItem, error) {
	query := `
		SELECT * FROM queue_items
		WHERE target_type = $1 AND target_id = $2 AND status IN ('pending', 'claimed')
		ORDER BY created_at ASC
		LIMIT 1
	`
	var item QueueItem
	err := r.db.GetContext(ctx, &item, query, targetType, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// List pages through the queue in queue order. Ordering and filtering both
// live in the query, so a page boundary never splits the global
// priority-desc, created_at-asc order and never drops filtered items from a
// page.
func (r *repository) List(ctx context.Context, filter Filter, limit, offset int) ([]*QueueItem, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where, args := buildFilterClauses(filter)
	query := fmt.Sprintf(`SELECT * FROM queue_items WHERE 1=1%s ORDER BY priority DESC, created_at ASC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	items := []*QueueItem{}
	err := r.db.SelectContext(ctx, &items, query, args...)
	return items, err
}

// Count returns the number of items matching the filter across all pages
func (r *repository) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := buildFilterClauses(filter)

	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM queue_items WHERE 1=1`+where, args...)
	return total, err
}

func buildFilterClauses(f Filter) (string, []interface{}) {
	var sb strings.Builder
	args := []interface{}{}

	if len(f.Types) > 0 {
		types := make([]string, len(f.Types))
		for i, t := range f.Types {
			types[i] = string(t)
		}
		args = append(args, pq.Array(types))
		sb.WriteString(fmt.Sprintf(" AND item_type = ANY($%d)", len(args)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, pq.Array(statuses))
		sb.WriteString(fmt.Sprintf(" AND status = ANY($%d)", len(args)))
	}
	if f.Band != nil {
		switch *f.Band {
		case BandHigh:
			sb.WriteString(" AND priority >= 7")
		case BandMedium:
			sb.WriteString(" AND priority BETWEEN 4 AND 6")
		case BandLow:
			sb.WriteString(" AND priority <= 3")
		}
	}
	if f.ClaimedBy != nil {
		args = append(args, *f.ClaimedBy)
		sb.WriteString(fmt.Sprintf(" AND claimed_by = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		sb.WriteString(fmt.Sprintf(" AND created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		sb.WriteString(fmt.Sprintf(" AND created_at <= $%d", len(args)))
	}

	return sb.String(), args
}

// MergeReport persists a duplicate-report merge. The status predicate keeps
// terminal items immutable even if a stale merge arrives late.
func (r *repository) MergeReport(ctx context.Context, item *QueueItem) error {
	query := `
		UPDATE queue_items
		SET priority = $2, report_count = $3, reporter_ids = $4, updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'claimed')
	`
	res, err := r.db.ExecContext(ctx, query, item.ID, item.Priority, item.ReportCount, item.ReporterIDs)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *repository) Claim(ctx context.Context, id, adminID uuid.UUID) (*QueueItem, error) {
	// Authoritative claim: only succeeds while the row is still unclaimed
	query := `
		UPDATE queue_items
		SET status = 'claimed', claimed_by = $2, claimed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND claimed_by IS NULL AND status = 'pending'
		RETURNING *
	`
	var item QueueItem
	err := r.db.GetContext(ctx, &item, query, id, adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.conflictOrMissing(ctx, id)
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) Release(ctx context.Context, id, adminID uuid.UUID) (*QueueItem, error) {
	query := `
		UPDATE queue_items
		SET status = 'pending', claimed_by = NULL, claimed_at = NULL, updated_at = NOW()
		WHERE id = $1 AND claimed_by = $2 AND status = 'claimed'
		RETURNING *
	`
	var item QueueItem
	err := r.db.GetContext(ctx, &item, query, id, adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.conflictOrMissing(ctx, id)
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) Resolve(ctx context.Context, id, adminID uuid.UUID, status Status, resolution string) (*QueueItem, error) {
	query := `
		UPDATE queue_items
		SET status = $3, resolution = $4, resolved_by = $2, resolved_at = NOW(),
		    claimed_by = NULL, claimed_at = NULL, updated_at = NOW()
		WHERE id = $1 AND claimed_by = $2 AND status = 'claimed'
		RETURNING *
	`
	var item QueueItem
	err := r.db.GetContext(ctx, &item, query, id, adminID, status, resolution)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.conflictOrMissing(ctx, id)
		}
		return nil, err
	}
	return &item, nil
}

// conflictOrMissing distinguishes a row that disappeared from one whose claim
// state changed under us.
func (r *repository) conflictOrMissing(ctx context.Context, id uuid.UUID) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrItemNotFound
	}
	return ErrConflict
}
