package queue

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuditSink appends an immutable record per state-changing action.
// Implemented by the admin service.
type AuditSink interface {
	LogActionWithReason(ctx context.Context, adminID uuid.UUID, action, entityType string, entityID uuid.UUID, reason string, oldValue, newValue interface{})
}

// Service handles moderation queue business logic. Stateless: all durable
// state lives behind the repository.
type Service struct {
	repo   Repository
	audit  AuditSink
	events EventPublisher
}

// NewService creates queue service
func NewService(repo Repository, audit AuditSink, events EventPublisher) *Service {
	return &Service{repo: repo, audit: audit, events: events}
}

// Submit scores an inbound event and inserts it into the queue, or merges it
// into the open item for the same target. Returns the stored item and whether
// a merge happened.
func (s *Service) Submit(ctx context.Context, req *CreateItemRequest) (*QueueItem, bool, error) {
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		return nil, false, err
	}

	var reporterID *uuid.UUID
	if req.ReporterID != nil {
		id, err := uuid.Parse(*req.ReporterID)
		if err != nil {
			return nil, false, err
		}
		reporterID = &id
	}

	existing, err := s.repo.FindOpenByTarget(ctx, req.TargetType, targetID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		merged, err := s.mergeReport(ctx, existing, reporterID, req.ReporterTrust)
		return merged, true, err
	}

	now := time.Now()
	item := &QueueItem{
		ID:         uuid.New(),
		ItemType:   ItemType(req.ItemType),
		Title:      req.Title,
		TargetType: req.TargetType,
		TargetID:   targetID,
		Priority:   CalculatePriority(ItemType(req.ItemType), req.ReporterTrust, 0, reporterID != nil),
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.Description != "" {
		item.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if reporterID != nil {
		item.ReportCount = 1
		item.ReporterIDs = []string{reporterID.String()}
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, false, err
	}

	s.publish(ctx, EventItemCreated, item)
	return item, false, nil
}

// mergeReport folds a duplicate report into the open item. Reporter ids are
// deduplicated: a repeat reporter changes neither reporter_ids nor
// report_count, and priority never decreases across merges.
func (s *Service) mergeReport(ctx context.Context, item *QueueItem, reporterID *uuid.UUID, reporterTrust int) (*QueueItem, error) {
	newReporter := reporterID != nil && !item.HasReporter(*reporterID)

	computed := CalculatePriority(item.ItemType, reporterTrust, item.ReportCount, newReporter)
	item.Priority = MergePriority(item.Priority, computed)

	if newReporter {
		item.ReporterIDs = append(item.ReporterIDs, reporterID.String())
		item.ReportCount++
	}

	if err := s.repo.MergeReport(ctx, item); err != nil {
		return nil, err
	}

	s.publish(ctx, EventItemUpdated, item)
	return item, nil
}

// Get returns a queue item by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*QueueItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// List returns one page of queue items in queue order plus the total match
// count across all pages. The repository orders and filters in the query;
// the pure rules are re-applied to the page so ordering and filter semantics
// hold even if storage and rules drift.
func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*QueueItem, int, error) {
	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ApplyFilter(SortItems(items), filter), total, nil
}

// Claim takes exclusive ownership of an item for adminID. The guard check is
// advisory; the repository's conditional write decides races and returns
// ErrConflict for the loser.
func (s *Service) Claim(ctx context.Context, adminID, itemID uuid.UUID) (*QueueItem, error) {
	item, err := s.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if d := CanClaim(item, adminID); !d.Allowed {
		return nil, &PolicyError{Reason: d.Reason}
	}

	claimed, err := s.repo.Claim(ctx, itemID, adminID)
	if err != nil {
		return nil, err
	}

	s.audit.LogActionWithReason(ctx, adminID, "queue_item_claimed", "queue_item", itemID, "",
		map[string]string{"status": string(StatusPending)},
		map[string]string{"status": string(StatusClaimed)})
	s.publish(ctx, EventItemClaimed, claimed)

	return claimed, nil
}

// Release gives up a held claim and returns the item to pending
func (s *Service) Release(ctx context.Context, adminID, itemID uuid.UUID) (*QueueItem, error) {
	item, err := s.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if d := CanRelease(item, adminID); !d.Allowed {
		return nil, &PolicyError{Reason: d.Reason}
	}

	released, err := s.repo.Release(ctx, itemID, adminID)
	if err != nil {
		return nil, err
	}

	s.audit.LogActionWithReason(ctx, adminID, "queue_item_released", "queue_item", itemID, "",
		map[string]string{"status": string(StatusClaimed)},
		map[string]string{"status": string(StatusPending)})
	s.publish(ctx, EventItemReleased, released)

	return released, nil
}

// Resolve moves a claimed item to its terminal status. A "dismissed"
// resolution kind dismisses the item, any other kind resolves it.
func (s *Service) Resolve(ctx context.Context, adminID, itemID uuid.UUID, req *ResolveRequest) (*QueueItem, error) {
	item, err := s.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if d := CanResolve(item, adminID); !d.Allowed {
		return nil, &PolicyError{Reason: d.Reason}
	}

	status := ResolutionStatus(req.Resolution)
	resolved, err := s.repo.Resolve(ctx, itemID, adminID, status, req.Resolution)
	if err != nil {
		return nil, err
	}

	action := "queue_item_resolved"
	if status == StatusDismissed {
		action = "queue_item_dismissed"
	}
	s.audit.LogActionWithReason(ctx, adminID, action, "queue_item", itemID, req.Reason,
		map[string]string{"status": string(StatusClaimed)},
		map[string]string{"status": string(status), "resolution": req.Resolution})
	s.publish(ctx, EventItemResolved, resolved)

	return resolved, nil
}

func (s *Service) publish(ctx context.Context, eventType EventType, item *QueueItem) {
	if s.events == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("error", r).Msg("Queue event publish panicked")
		}
	}()
	s.events.PublishQueueEvent(ctx, Event{Type: eventType, Item: ItemResponseFromEntity(item)})
}
