package hackathon

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hackhub/hackhub-admin-api/internal/domain/queue"
)

// AuditSink appends an immutable record per state-changing action
type AuditSink interface {
	LogActionWithReason(ctx context.Context, adminID uuid.UUID, action, targetType string, targetID uuid.UUID, reason string, beforeState, afterState interface{})
}

// Service handles hackathon moderation logic
type Service struct {
	repo     Repository
	queueSvc *queue.Service
	audit    AuditSink
}

// NewService creates hackathon service
func NewService(repo Repository, queueSvc *queue.Service, audit AuditSink) *Service {
	return &Service{repo: repo, queueSvc: queueSvc, audit: audit}
}

// Get returns a hackathon by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Hackathon, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, ErrHackathonNotFound
	}
	return h, nil
}

// ListByStatus returns hackathons in a given status
func (s *Service) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Hackathon, error) {
	return s.repo.ListByStatus(ctx, status, limit, offset)
}

// EvaluateSubmission applies the review-override rule to a submitted
// hackathon. The organizer flag is read fresh on every call: a flagged
// organizer can never bypass manual review, whatever the hackathon's
// auto-approval configuration says. Auto-approved hackathons publish
// immediately; everything else goes to pending_review and is enqueued for an
// operator.
func (s *Service) EvaluateSubmission(ctx context.Context, adminID, hackathonID uuid.UUID) (*EvaluationResult, error) {
	h, err := s.Get(ctx, hackathonID)
	if err != nil {
		return nil, err
	}

	isFlagged, err := s.repo.GetOrganizerFlag(ctx, h.OrganizerID)
	if err != nil {
		return nil, err
	}

	if CanAutoApproveSubmission(isFlagged, h.AutoApprovalEnabled) {
		if err := s.repo.UpdateStatus(ctx, h.ID, StatusPublished, ""); err != nil {
			return nil, err
		}

		s.audit.LogActionWithReason(ctx, adminID, "hackathon_auto_approved", "hackathon", h.ID, "",
			map[string]string{"status": string(h.Status)},
			map[string]string{"status": string(StatusPublished)})

		return &EvaluationResult{
			HackathonID:    h.ID,
			RequiresReview: false,
			Status:         string(StatusPublished),
		}, nil
	}

	if err := s.repo.UpdateStatus(ctx, h.ID, StatusPendingReview, ""); err != nil {
		return nil, err
	}

	// Queue the hackathon for an operator. A duplicate submission merges
	// into the already-open item.
	targetID := h.ID.String()
	_, _, err = s.queueSvc.Submit(ctx, &queue.CreateItemRequest{
		ItemType:   string(queue.ItemTypeHackathon),
		Title:      fmt.Sprintf("Review hackathon: %s", h.Title),
		TargetType: "hackathon",
		TargetID:   targetID,
	})
	if err != nil {
		log.Error().Err(err).Str("hackathon_id", targetID).Msg("Failed to enqueue hackathon for review")
	}

	return &EvaluationResult{
		HackathonID:    h.ID,
		RequiresReview: true,
		Status:         string(StatusPendingReview),
	}, nil
}

// Review applies a manual review decision to a pending hackathon
func (s *Service) Review(ctx context.Context, adminID, hackathonID uuid.UUID, approve bool, note string) (*Hackathon, error) {
	h, err := s.Get(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	if h.Status != StatusPendingReview {
		return nil, ErrNotPendingReview
	}

	newStatus := StatusPublished
	action := "hackathon_approved"
	if !approve {
		newStatus = StatusUnpublished
		action = "hackathon_rejected"
	}

	if err := s.repo.UpdateStatus(ctx, h.ID, newStatus, note); err != nil {
		return nil, err
	}

	s.audit.LogActionWithReason(ctx, adminID, action, "hackathon", h.ID, note,
		map[string]string{"status": string(h.Status)},
		map[string]string{"status": string(newStatus)})

	return s.Get(ctx, hackathonID)
}

// OrganizerApprovalStats summarizes an organizer's submission history
func (s *Service) OrganizerApprovalStats(ctx context.Context, organizerID uuid.UUID) (*ApprovalStats, error) {
	approved, total, err := s.repo.CountSubmissions(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	return &ApprovalStats{
		OrganizerID:  organizerID,
		Approved:     approved,
		Total:        total,
		ApprovalRate: ApprovalRate(approved, total),
	}, nil
}
