package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service manages user notifications
type Service struct {
	repo Repository
}

// NewService creates notification service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Notify creates a single notification for a user
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, typ Type, message string) error {
	n := &Notification{
		UserID:  userID,
		Type:    typ,
		Message: message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	log.Debug().
		Str("user_id", userID.String()).
		Str("type", string(typ)).
		Msg("notification created")

	return nil
}

// NotifyUsers fans a moderation notice out to a set of users and
// reports how many notifications were actually delivered. Duplicate
// recipients are collapsed before delivery.
func (s *Service) NotifyUsers(ctx context.Context, userIDs []uuid.UUID, typ Type, message string) (int, error) {
	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	notifications := make([]*Notification, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		notifications = append(notifications, &Notification{
			UserID:  id,
			Type:    typ,
			Message: message,
		})
	}

	if len(notifications) == 0 {
		return 0, nil
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		return 0, fmt.Errorf("notify users: %w", err)
	}

	return len(notifications), nil
}

// ListByUser returns a user's notifications, newest first
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}
