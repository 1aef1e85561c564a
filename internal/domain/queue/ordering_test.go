package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func makeItem(priority int, createdAt time.Time) *QueueItem {
	return &QueueItem{
		ID:        uuid.New(),
		ItemType:  ItemTypeReport,
		Priority:  priority,
		Status:    StatusPending,
		CreatedAt: createdAt,
	}
}

func TestSortItemsOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	items := []*QueueItem{
		makeItem(3, base.Add(2*time.Hour)),
		makeItem(8, base.Add(1*time.Hour)),
		makeItem(8, base),
		makeItem(5, base.Add(3*time.Hour)),
		makeItem(10, base.Add(4*time.Hour)),
	}

	sorted := SortItems(items)

	if !IsOrdered(sorted) {
		t.Fatal("SortItems output violates ordering invariant")
	}

	if sorted[0].Priority != 10 {
		t.Errorf("first item priority = %d, want 10", sorted[0].Priority)
	}

	// Equal priority: older item first.
	if sorted[1].CreatedAt != base {
		t.Errorf("tie not broken by created_at: got %v, want %v", sorted[1].CreatedAt, base)
	}
	if sorted[2].CreatedAt != base.Add(1*time.Hour) {
		t.Errorf("tie not broken by created_at: got %v", sorted[2].CreatedAt)
	}
}

func TestSortItemsIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	items := []*QueueItem{
		makeItem(7, base),
		makeItem(7, base.Add(time.Minute)),
		makeItem(7, base.Add(2*time.Minute)),
		makeItem(2, base),
	}

	first := SortItems(items)
	second := SortItems(first)

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("re-sorting changed order at index %d", i)
		}
	}
}

func TestSortItemsPreservesMembership(t *testing.T) {
	base := time.Now()
	items := []*QueueItem{
		makeItem(1, base),
		makeItem(9, base),
		makeItem(5, base),
	}

	sorted := SortItems(items)

	if len(sorted) != len(items) {
		t.Fatalf("sorted length = %d, want %d", len(sorted), len(items))
	}

	ids := make(map[uuid.UUID]bool)
	for _, item := range items {
		ids[item.ID] = true
	}
	for _, item := range sorted {
		if !ids[item.ID] {
			t.Errorf("sorted output contains unknown item %s", item.ID)
		}
	}

	// Input slice is left untouched.
	if items[0].Priority != 1 {
		t.Error("SortItems mutated its input")
	}
}

func TestApplyFilterStable(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	items := SortItems([]*QueueItem{
		makeItem(9, base),
		makeItem(8, base),
		makeItem(5, base),
		makeItem(4, base),
		makeItem(2, base),
	})

	band := BandHigh
	filtered := ApplyFilter(items, Filter{Band: &band})

	if len(filtered) != 2 {
		t.Fatalf("high band filter kept %d items, want 2", len(filtered))
	}
	if filtered[0].Priority != 9 || filtered[1].Priority != 8 {
		t.Error("filter disturbed relative order")
	}
	if !IsOrdered(filtered) {
		t.Error("filtered output violates ordering invariant")
	}
}

func TestFilterMatch(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	adminID := uuid.New()

	item := makeItem(6, base)
	item.ItemType = ItemTypeUser
	item.Status = StatusClaimed
	item.ClaimedBy = uuid.NullUUID{UUID: adminID, Valid: true}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter", Filter{}, true},
		{"matching type", Filter{Types: []ItemType{ItemTypeUser}}, true},
		{"wrong type", Filter{Types: []ItemType{ItemTypeReport}}, false},
		{"matching status", Filter{Statuses: []Status{StatusClaimed}}, true},
		{"wrong status", Filter{Statuses: []Status{StatusPending}}, false},
		{"matching band", Filter{Band: bandPtr(BandMedium)}, true},
		{"wrong band", Filter{Band: bandPtr(BandHigh)}, false},
		{"matching claimant", Filter{ClaimedBy: &adminID}, true},
		{"date range includes", Filter{From: timePtr(base.Add(-time.Hour)), To: timePtr(base.Add(time.Hour))}, true},
		{"date range excludes", Filter{From: timePtr(base.Add(time.Hour))}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(item); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}

	other := uuid.New()
	if (Filter{ClaimedBy: &other}).Match(item) {
		t.Error("filter matched a different claimant")
	}
}

func bandPtr(b Band) *Band           { return &b }
func timePtr(t time.Time) *time.Time { return &t }
