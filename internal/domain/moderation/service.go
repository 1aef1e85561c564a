package moderation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hackhub/hackhub-admin-api/internal/domain/notification"
	"github.com/hackhub/hackhub-admin-api/internal/domain/team"
)

// HackathonStore is the slice of the hackathon domain the cascade
// executor needs.
type HackathonStore interface {
	Unpublish(ctx context.Context, id uuid.UUID, note string) error
}

// TeamStore is the slice of the team domain moderation needs: membership
// lookups when sizing up a user, eviction when banning them.
type TeamStore interface {
	ListMembershipsByUser(ctx context.Context, userID uuid.UUID) ([]*team.Membership, error)
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
}

// Notifier delivers moderation notices and reports how many went out.
type Notifier interface {
	NotifyUsers(ctx context.Context, userIDs []uuid.UUID, typ notification.Type, message string) (int, error)
	Notify(ctx context.Context, userID uuid.UUID, typ notification.Type, message string) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*notification.Notification, error)
}

// AuditSink appends immutable audit records
type AuditSink interface {
	LogActionWithReason(ctx context.Context, adminID uuid.UUID, action, targetType string, targetID uuid.UUID, reason string, beforeState, afterState interface{})
}

// Service executes moderation actions and their cascades
type Service struct {
	repo       Repository
	hackathons HackathonStore
	teams      TeamStore
	notifier   Notifier
	audit      AuditSink
}

// NewService creates moderation service
func NewService(repo Repository, hackathons HackathonStore, teams TeamStore, notifier Notifier, audit AuditSink) *Service {
	return &Service{
		repo:       repo,
		hackathons: hackathons,
		teams:      teams,
		notifier:   notifier,
		audit:      audit,
	}
}

// GetUser returns the moderation view of an account
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

// BanUser bans an account and runs the full cascade: unpublish the
// organizer's live hackathons, evict the user from their teams, and
// notify affected teammates. Sub-actions are independent: one failure
// is logged and counted, the rest still run. The ban itself is a
// conditional write, so two concurrent bans of the same user produce
// exactly one success.
func (s *Service) BanUser(ctx context.Context, adminID, userID uuid.UUID, reason string) (*BanSummary, error) {
	before, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if before.IsBanned() {
		return nil, ErrAlreadyBanned
	}

	// Snapshot first so the cascade sees the user's standing as it
	// was at ban time, not after team rows start disappearing.
	input, err := s.repo.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	effect := DetermineCascadeEffects(*input)

	after, err := s.repo.SetBanned(ctx, userID, reason)
	if err != nil {
		return nil, err
	}

	summary := s.executeCascade(ctx, adminID, userID, effect, reason)
	summary.UserID = userID
	summary.AffectedUsers = append([]uuid.UUID(nil), effect.UsersToNotify...)

	record := &BanRecord{
		UserID:                userID,
		AdminID:               adminID,
		Reason:                reason,
		HackathonsUnpublished: summary.HackathonsUnpublished,
		TeamsRemoved:          summary.TeamsRemoved,
		NotificationsSent:     summary.NotificationsSent,
		FailedActions:         len(summary.failures),
		FailureDetail:         nullableJoin(summary.failures),
	}
	if err := s.repo.CreateBanRecord(ctx, record); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to persist ban record")
	}

	s.audit.LogActionWithReason(ctx, adminID, "user_banned", "user", userID, reason,
		map[string]interface{}{"role": before.Role, "status": before.Status},
		map[string]interface{}{
			"role":                   after.Role,
			"status":                 after.Status,
			"hackathons_unpublished": summary.HackathonsUnpublished,
			"teams_removed":          summary.TeamsRemoved,
			"notifications_sent":     summary.NotificationsSent,
		})

	return summary, nil
}

// executeCascade runs each sub-action in turn, accumulating results.
// A failed sub-action is recorded and skipped over, never re-thrown.
func (s *Service) executeCascade(ctx context.Context, adminID, userID uuid.UUID, effect CascadeEffect, reason string) *BanSummary {
	summary := &BanSummary{}

	if effect.MustUnpublish {
		note := fmt.Sprintf("Unpublished: organizer banned (%s)", reason)
		for _, hackathonID := range effect.HackathonsToUnpublish {
			if err := s.hackathons.Unpublish(ctx, hackathonID, note); err != nil {
				log.Error().Err(err).
					Str("hackathon_id", hackathonID.String()).
					Msg("cascade: failed to unpublish hackathon")
				summary.failures = append(summary.failures,
					fmt.Sprintf("unpublish %s: %v", hackathonID, err))
				continue
			}
			s.audit.LogActionWithReason(ctx, adminID, "hackathon_unpublished", "hackathon",
				hackathonID, note, nil, nil)
			summary.HackathonsUnpublished++
		}
	}

	if effect.MustRemoveFromTeams {
		for _, teamID := range effect.TeamsToRemove {
			if err := s.teams.RemoveMember(ctx, teamID, userID); err != nil {
				log.Error().Err(err).
					Str("team_id", teamID.String()).
					Msg("cascade: failed to remove team member")
				summary.failures = append(summary.failures,
					fmt.Sprintf("remove from team %s: %v", teamID, err))
				continue
			}
			summary.TeamsRemoved++
		}
	}

	if err := s.notifier.Notify(ctx, userID,
		notification.TypeAccountBanned,
		fmt.Sprintf("Your account has been banned: %s", reason)); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).
			Msg("cascade: failed to notify banned user")
		summary.failures = append(summary.failures, fmt.Sprintf("notify banned user: %v", err))
	}

	if effect.MustNotify {
		sent, err := s.notifier.NotifyUsers(ctx, effect.UsersToNotify,
			notification.TypeTeamMemberBanned,
			"A member of your team was removed following a moderation action")
		if err != nil {
			log.Error().Err(err).Msg("cascade: failed to notify affected users")
			summary.failures = append(summary.failures, fmt.Sprintf("notify affected users: %v", err))
		}
		summary.NotificationsSent = sent
	}

	return summary
}

// UnbanUser reverses a ban. Cascade effects are not reversed: team
// rows are gone and unpublished hackathons stay down until re-reviewed.
func (s *Service) UnbanUser(ctx context.Context, adminID, userID uuid.UUID, reason string) (*User, error) {
	before, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	after, err := s.repo.SetActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.audit.LogActionWithReason(ctx, adminID, "user_unbanned", "user", userID, reason,
		map[string]interface{}{"status": before.Status},
		map[string]interface{}{"status": after.Status})

	return after, nil
}

// BanHistory returns past ban records for a user
func (s *Service) BanHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*BanRecord, error) {
	return s.repo.ListBanRecords(ctx, userID, limit, offset)
}

// TeamMemberships returns the teams a user belongs to, the set a ban would
// evict them from
func (s *Service) TeamMemberships(ctx context.Context, userID uuid.UUID) ([]*team.Membership, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.teams.ListMembershipsByUser(ctx, userID)
}

// UserNotifications returns the moderation notices delivered to a user
func (s *Service) UserNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*notification.Notification, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.notifier.ListByUser(ctx, userID, limit, offset)
}

func nullableJoin(failures []string) sql.NullString {
	if len(failures) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(failures, "; "), Valid: true}
}
