package queue

import (
	"github.com/google/uuid"
)

// Decision is the outcome of a state-machine guard. Guards validate an
// in-memory snapshot only and are advisory: the repository's conditional
// update is the authoritative arbiter of concurrent transitions.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// CanClaim checks whether actorID may claim the item. Re-claiming an item the
// actor already holds is rejected: releasing or resolving is the only way
// forward from a held claim.
func CanClaim(item *QueueItem, actorID uuid.UUID) Decision {
	if item.ClaimedBy.Valid {
		if item.ClaimedBy.UUID == actorID {
			return deny("already claimed by you")
		}
		return deny("already claimed by another admin")
	}
	if item.IsTerminal() {
		return deny("already " + string(item.Status))
	}
	return allow()
}

// CanRelease checks whether actorID may release the item back to pending
func CanRelease(item *QueueItem, actorID uuid.UUID) Decision {
	if item.IsTerminal() {
		return deny("already " + string(item.Status))
	}
	if !item.ClaimedBy.Valid {
		return deny("not claimed")
	}
	if item.ClaimedBy.UUID != actorID {
		return deny("claimed by another admin")
	}
	return allow()
}

// CanResolve checks whether actorID may resolve or dismiss the item. An item
// must be claimed by the resolving actor; an unclaimed item cannot be
// resolved.
func CanResolve(item *QueueItem, actorID uuid.UUID) Decision {
	if item.IsTerminal() {
		return deny("already " + string(item.Status))
	}
	if !item.ClaimedBy.Valid {
		return deny("not claimed")
	}
	if item.ClaimedBy.UUID != actorID {
		return deny("claimed by another admin")
	}
	return allow()
}

// ResolutionStatus maps a resolution kind to the terminal status it produces
func ResolutionStatus(resolution string) Status {
	if resolution == "dismissed" {
		return StatusDismissed
	}
	return StatusResolved
}
