package moderation

import (
	"fmt"

	"github.com/google/uuid"
)

// CascadeInput is a snapshot of the target user's standing taken at
// ban time. It is built once, consumed by DetermineCascadeEffects,
// and discarded; only the resulting ban record is durable.
type CascadeInput struct {
	UserID             uuid.UUID
	IsOrganizer        bool
	ActiveHackathonIDs []uuid.UUID
	TeamIDs            []uuid.UUID
	AffectedUserIDs    []uuid.UUID
}

// CascadeEffect describes the secondary actions a ban must trigger.
type CascadeEffect struct {
	MustUnpublish         bool
	HackathonsToUnpublish []uuid.UUID
	MustRemoveFromTeams   bool
	TeamsToRemove         []uuid.UUID
	MustNotify            bool
	UsersToNotify         []uuid.UUID
}

// DetermineCascadeEffects derives the downstream actions for a ban
// from the facts in the input snapshot. Pure: no side effects, no
// storage access. A non-organizer never has hackathons unpublished,
// regardless of what ids the snapshot carries.
func DetermineCascadeEffects(in CascadeInput) CascadeEffect {
	effect := CascadeEffect{}

	if in.IsOrganizer && len(in.ActiveHackathonIDs) > 0 {
		effect.MustUnpublish = true
		effect.HackathonsToUnpublish = append([]uuid.UUID(nil), in.ActiveHackathonIDs...)
	}

	if len(in.TeamIDs) > 0 {
		effect.MustRemoveFromTeams = true
		effect.TeamsToRemove = append([]uuid.UUID(nil), in.TeamIDs...)
	}

	if len(in.AffectedUserIDs) > 0 {
		effect.MustNotify = true
		effect.UsersToNotify = append([]uuid.UUID(nil), in.AffectedUserIDs...)
	}

	return effect
}

// ValidateCascadeEffects checks that every id the input names appears
// in the corresponding effect list. Team and notify sets must always
// match; the unpublish set must match whenever the user is an
// organizer with active hackathons.
func ValidateCascadeEffects(in CascadeInput, effect CascadeEffect) error {
	if in.IsOrganizer {
		if err := containsAll(effect.HackathonsToUnpublish, in.ActiveHackathonIDs, "hackathon"); err != nil {
			return err
		}
	}
	if err := containsAll(effect.TeamsToRemove, in.TeamIDs, "team"); err != nil {
		return err
	}
	return containsAll(effect.UsersToNotify, in.AffectedUserIDs, "user")
}

func containsAll(have, want []uuid.UUID, label string) error {
	set := make(map[uuid.UUID]struct{}, len(have))
	for _, id := range have {
		set[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := set[id]; !ok {
			return fmt.Errorf("cascade effect missing %s %s", label, id)
		}
	}
	return nil
}
