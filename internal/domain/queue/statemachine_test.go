package queue

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func pendingItem() *QueueItem {
	return &QueueItem{ID: uuid.New(), Status: StatusPending}
}

func claimedItem(by uuid.UUID) *QueueItem {
	return &QueueItem{
		ID:        uuid.New(),
		Status:    StatusClaimed,
		ClaimedBy: uuid.NullUUID{UUID: by, Valid: true},
	}
}

func terminalItem(status Status) *QueueItem {
	return &QueueItem{ID: uuid.New(), Status: status}
}

func TestCanClaim(t *testing.T) {
	adminA := uuid.New()
	adminB := uuid.New()

	t.Run("pending item is claimable", func(t *testing.T) {
		d := CanClaim(pendingItem(), adminA)
		if !d.Allowed {
			t.Errorf("claim denied: %s", d.Reason)
		}
	})

	t.Run("claimed by another admin", func(t *testing.T) {
		d := CanClaim(claimedItem(adminA), adminB)
		if d.Allowed {
			t.Fatal("claim allowed on item held by someone else")
		}
		if !strings.Contains(d.Reason, "already claimed") {
			t.Errorf("reason %q does not mention already claimed", d.Reason)
		}
	})

	t.Run("re-claim by holder is rejected", func(t *testing.T) {
		d := CanClaim(claimedItem(adminA), adminA)
		if d.Allowed {
			t.Fatal("re-claim allowed")
		}
		if !strings.Contains(d.Reason, "already claimed by you") {
			t.Errorf("reason %q does not mention already claimed by you", d.Reason)
		}
	})

	t.Run("terminal items are not claimable", func(t *testing.T) {
		for _, status := range []Status{StatusResolved, StatusDismissed} {
			d := CanClaim(terminalItem(status), adminA)
			if d.Allowed {
				t.Fatalf("claim allowed on %s item", status)
			}
			if !strings.Contains(d.Reason, string(status)) {
				t.Errorf("reason %q does not name status %s", d.Reason, status)
			}
		}
	})
}

func TestCanRelease(t *testing.T) {
	adminA := uuid.New()
	adminB := uuid.New()

	tests := []struct {
		name    string
		item    *QueueItem
		actor   uuid.UUID
		allowed bool
	}{
		{"holder releases", claimedItem(adminA), adminA, true},
		{"non-holder cannot release", claimedItem(adminA), adminB, false},
		{"unclaimed cannot be released", pendingItem(), adminA, false},
		{"resolved cannot be released", terminalItem(StatusResolved), adminA, false},
		{"dismissed cannot be released", terminalItem(StatusDismissed), adminA, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanRelease(tt.item, tt.actor)
			if d.Allowed != tt.allowed {
				t.Errorf("CanRelease = %v (%s), want %v", d.Allowed, d.Reason, tt.allowed)
			}
			if !tt.allowed && d.Reason == "" {
				t.Error("denial carries no reason")
			}
		})
	}
}

func TestCanResolve(t *testing.T) {
	adminA := uuid.New()
	adminB := uuid.New()

	tests := []struct {
		name    string
		item    *QueueItem
		actor   uuid.UUID
		allowed bool
	}{
		{"holder resolves", claimedItem(adminA), adminA, true},
		{"non-holder cannot resolve", claimedItem(adminA), adminB, false},
		{"unclaimed cannot be resolved", pendingItem(), adminA, false},
		{"resolved stays resolved", terminalItem(StatusResolved), adminA, false},
		{"dismissed stays dismissed", terminalItem(StatusDismissed), adminA, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanResolve(tt.item, tt.actor)
			if d.Allowed != tt.allowed {
				t.Errorf("CanResolve = %v (%s), want %v", d.Allowed, d.Reason, tt.allowed)
			}
		})
	}
}

func TestResolutionStatus(t *testing.T) {
	if got := ResolutionStatus("dismissed"); got != StatusDismissed {
		t.Errorf("ResolutionStatus(dismissed) = %s", got)
	}
	for _, resolution := range []string{"approved", "rejected", "removed", "warned", "banned"} {
		if got := ResolutionStatus(resolution); got != StatusResolved {
			t.Errorf("ResolutionStatus(%s) = %s, want %s", resolution, got, StatusResolved)
		}
	}
}
