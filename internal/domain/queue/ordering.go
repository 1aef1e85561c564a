package queue

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// SortItems returns a new slice ordered by priority descending with ties
// broken by created_at ascending, so equally urgent items are worked
// oldest-first and long-pending items do not starve. The sort is stable and
// idempotent: sorting an already-sorted slice yields the same sequence.
func SortItems(items []*QueueItem) []*QueueItem {
	sorted := make([]*QueueItem, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	return sorted
}

// IsOrdered checks the queue ordering invariant over adjacent pairs:
// priority never increases, and within equal priority created_at never
// decreases.
func IsOrdered(items []*QueueItem) bool {
	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1], items[i]
		if cur.Priority > prev.Priority {
			return false
		}
		if cur.Priority == prev.Priority && cur.CreatedAt.Before(prev.CreatedAt) {
			return false
		}
	}
	return true
}

// Filter selects queue items without disturbing their relative order
type Filter struct {
	Types     []ItemType
	Statuses  []Status
	Band      *Band
	ClaimedBy *uuid.UUID
	From      *time.Time
	To        *time.Time
}

// Match reports whether the item survives the filter
func (f Filter) Match(item *QueueItem) bool {
	if len(f.Types) > 0 && !containsType(f.Types, item.ItemType) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, item.Status) {
		return false
	}
	if f.Band != nil && BandFor(item.Priority) != *f.Band {
		return false
	}
	if f.ClaimedBy != nil {
		if !item.ClaimedBy.Valid || item.ClaimedBy.UUID != *f.ClaimedBy {
			return false
		}
	}
	if f.From != nil && item.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && item.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// ApplyFilter returns the surviving items in their original relative order
func ApplyFilter(items []*QueueItem, f Filter) []*QueueItem {
	filtered := make([]*QueueItem, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func containsType(types []ItemType, t ItemType) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

func containsStatus(statuses []Status, s Status) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}
