package queue

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory Repository that mimics the conditional-write
// behavior of the real one.
type fakeRepo struct {
	items map[uuid.UUID]*QueueItem

	claimErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[uuid.UUID]*QueueItem)}
}

func (f *fakeRepo) Create(ctx context.Context, item *QueueItem) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*QueueItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (f *fakeRepo) FindOpenByTarget(ctx context.Context, targetType string, targetID uuid.UUID) (*QueueItem, error) {
	for _, item := range f.items {
		if item.TargetType == targetType && item.TargetID == targetID && !item.IsTerminal() {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

// List mirrors the real repository: filter and queue order applied before
// pagination.
func (f *fakeRepo) List(ctx context.Context, filter Filter, limit, offset int) ([]*QueueItem, error) {
	if limit <= 0 {
		limit = 50
	}
	matched := f.matching(filter)
	if offset >= len(matched) {
		return []*QueueItem{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (f *fakeRepo) Count(ctx context.Context, filter Filter) (int, error) {
	return len(f.matching(filter)), nil
}

func (f *fakeRepo) matching(filter Filter) []*QueueItem {
	items := make([]*QueueItem, 0, len(f.items))
	for _, item := range f.items {
		copied := *item
		items = append(items, &copied)
	}
	return ApplyFilter(SortItems(items), filter)
}

func (f *fakeRepo) MergeReport(ctx context.Context, item *QueueItem) error {
	stored, ok := f.items[item.ID]
	if !ok {
		return ErrItemNotFound
	}
	if stored.IsTerminal() {
		return ErrConflict
	}
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeRepo) Claim(ctx context.Context, id, adminID uuid.UUID) (*QueueItem, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	item, ok := f.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	if item.ClaimedBy.Valid || item.Status != StatusPending {
		return nil, ErrConflict
	}
	item.Status = StatusClaimed
	item.ClaimedBy = uuid.NullUUID{UUID: adminID, Valid: true}
	item.ClaimedAt = sql.NullTime{Time: time.Now(), Valid: true}
	copied := *item
	return &copied, nil
}

func (f *fakeRepo) Release(ctx context.Context, id, adminID uuid.UUID) (*QueueItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	if !item.ClaimedBy.Valid || item.ClaimedBy.UUID != adminID {
		return nil, ErrConflict
	}
	item.Status = StatusPending
	item.ClaimedBy = uuid.NullUUID{}
	item.ClaimedAt = sql.NullTime{}
	copied := *item
	return &copied, nil
}

func (f *fakeRepo) Resolve(ctx context.Context, id, adminID uuid.UUID, status Status, resolution string) (*QueueItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	if !item.ClaimedBy.Valid || item.ClaimedBy.UUID != adminID {
		return nil, ErrConflict
	}
	item.Status = status
	item.Resolution = sql.NullString{String: resolution, Valid: true}
	item.ResolvedBy = uuid.NullUUID{UUID: adminID, Valid: true}
	item.ResolvedAt = sql.NullTime{Time: time.Now(), Valid: true}
	item.ClaimedBy = uuid.NullUUID{}
	item.ClaimedAt = sql.NullTime{}
	copied := *item
	return &copied, nil
}

type auditEntry struct {
	action string
	reason string
}

type fakeAudit struct {
	entries []auditEntry
}

func (f *fakeAudit) LogActionWithReason(ctx context.Context, adminID uuid.UUID, action, entityType string, entityID uuid.UUID, reason string, oldValue, newValue interface{}) {
	f.entries = append(f.entries, auditEntry{action: action, reason: reason})
}

func (f *fakeAudit) lastAction() string {
	if len(f.entries) == 0 {
		return ""
	}
	return f.entries[len(f.entries)-1].action
}

type fakePublisher struct {
	events []Event
}

func (f *fakePublisher) PublishQueueEvent(ctx context.Context, event Event) {
	f.events = append(f.events, event)
}

func newTestService() (*Service, *fakeRepo, *fakeAudit, *fakePublisher) {
	repo := newFakeRepo()
	audit := &fakeAudit{}
	events := &fakePublisher{}
	return NewService(repo, audit, events), repo, audit, events
}

func submitReport(t *testing.T, svc *Service, targetID uuid.UUID, reporterID *uuid.UUID, trust int) *QueueItem {
	t.Helper()
	req := &CreateItemRequest{
		ItemType:      "report",
		Title:         "Spam hackathon listing",
		TargetType:    "hackathon",
		TargetID:      targetID.String(),
		ReporterTrust: trust,
	}
	if reporterID != nil {
		s := reporterID.String()
		req.ReporterID = &s
	}
	item, _, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return item
}

func TestSubmitCreatesItem(t *testing.T) {
	svc, _, _, events := newTestService()

	reporter := uuid.New()
	item := submitReport(t, svc, uuid.New(), &reporter, 0)

	if item.Status != StatusPending {
		t.Errorf("status = %s, want pending", item.Status)
	}
	// 3 base + 1 report
	if item.Priority != 4 {
		t.Errorf("priority = %d, want 4", item.Priority)
	}
	if item.ReportCount != 1 || len(item.ReporterIDs) != 1 {
		t.Errorf("report_count = %d, reporter_ids = %v", item.ReportCount, item.ReporterIDs)
	}
	if len(events.events) != 1 || events.events[0].Type != EventItemCreated {
		t.Errorf("expected one created event, got %v", events.events)
	}
}

func TestSubmitMergesDuplicateTarget(t *testing.T) {
	svc, _, _, _ := newTestService()

	target := uuid.New()
	first := uuid.New()
	second := uuid.New()

	item := submitReport(t, svc, target, &first, 0)

	req := &CreateItemRequest{
		ItemType:   "report",
		Title:      "Spam hackathon listing",
		TargetType: "hackathon",
		TargetID:   target.String(),
	}
	s := second.String()
	req.ReporterID = &s

	merged, wasMerge, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !wasMerge {
		t.Fatal("second report for same target did not merge")
	}
	if merged.ID != item.ID {
		t.Error("merge created a new item")
	}
	if merged.ReportCount != 2 || len(merged.ReporterIDs) != 2 {
		t.Errorf("report_count = %d, reporter_ids = %v", merged.ReportCount, merged.ReporterIDs)
	}
}

func TestMergeDeduplicatesReporter(t *testing.T) {
	svc, _, _, _ := newTestService()

	target := uuid.New()
	reporter := uuid.New()

	submitReport(t, svc, target, &reporter, 0)
	merged := submitReport(t, svc, target, &reporter, 0)

	if merged.ReportCount != 1 {
		t.Errorf("repeat reporter raised report_count to %d", merged.ReportCount)
	}
	if len(merged.ReporterIDs) != 1 {
		t.Errorf("repeat reporter duplicated reporter_ids: %v", merged.ReporterIDs)
	}
}

func TestMergePriorityNeverDecreases(t *testing.T) {
	svc, _, _, _ := newTestService()

	target := uuid.New()
	trusted := uuid.New()
	untrusted := uuid.New()

	// Trusted reporter first: 3 base + 1 report + 2 trust = 6.
	item := submitReport(t, svc, target, &trusted, 95)
	if item.Priority != 6 {
		t.Fatalf("initial priority = %d, want 6", item.Priority)
	}

	// Untrusted follow-up computes 3 + 2 = 5; stored priority keeps 6.
	merged := submitReport(t, svc, target, &untrusted, 0)
	if merged.Priority < 6 {
		t.Errorf("merge decreased priority to %d", merged.Priority)
	}
}

func TestClaimFlow(t *testing.T) {
	svc, _, audit, events := newTestService()
	adminA := uuid.New()
	adminB := uuid.New()

	item := submitReport(t, svc, uuid.New(), nil, 0)

	claimed, err := svc.Claim(context.Background(), adminA, item.ID)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if claimed.Status != StatusClaimed || !claimed.ClaimedBy.Valid || claimed.ClaimedBy.UUID != adminA {
		t.Errorf("claim did not take ownership: %+v", claimed)
	}
	if audit.lastAction() != "queue_item_claimed" {
		t.Errorf("audit action = %s", audit.lastAction())
	}
	if events.events[len(events.events)-1].Type != EventItemClaimed {
		t.Error("claim event not published")
	}

	// Second claim hits the guard, not the store.
	_, err = svc.Claim(context.Background(), adminB, item.ID)
	var policyErr *PolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PolicyError, got %v", err)
	}
	if policyErr.Reason != "already claimed by another admin" {
		t.Errorf("reason = %q", policyErr.Reason)
	}

	// Same admin re-claiming is also rejected.
	_, err = svc.Claim(context.Background(), adminA, item.ID)
	if !errors.As(err, &policyErr) || policyErr.Reason != "already claimed by you" {
		t.Errorf("re-claim: got %v", err)
	}
}

func TestClaimRaceSurfacesConflict(t *testing.T) {
	svc, repo, _, _ := newTestService()
	admin := uuid.New()

	item := submitReport(t, svc, uuid.New(), nil, 0)

	// Guard sees a pending snapshot but the store rejects the write,
	// as when another session claimed between read and update.
	repo.claimErr = ErrConflict

	_, err := svc.Claim(context.Background(), admin, item.ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	var policyErr *PolicyError
	if errors.As(err, &policyErr) {
		t.Error("conflict must stay distinct from policy violations")
	}
}

func TestReleaseReturnsItemToPending(t *testing.T) {
	svc, _, audit, _ := newTestService()
	admin := uuid.New()

	item := submitReport(t, svc, uuid.New(), nil, 0)
	if _, err := svc.Claim(context.Background(), admin, item.ID); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	released, err := svc.Release(context.Background(), admin, item.ID)
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if released.Status != StatusPending || released.ClaimedBy.Valid {
		t.Errorf("release did not reset item: %+v", released)
	}
	if audit.lastAction() != "queue_item_released" {
		t.Errorf("audit action = %s", audit.lastAction())
	}

	// Released items can be claimed again, by anyone.
	other := uuid.New()
	if _, err := svc.Claim(context.Background(), other, item.ID); err != nil {
		t.Errorf("re-claim after release failed: %v", err)
	}
}

func TestResolveTerminalStates(t *testing.T) {
	tests := []struct {
		resolution string
		wantStatus Status
		wantAction string
	}{
		{"removed", StatusResolved, "queue_item_resolved"},
		{"dismissed", StatusDismissed, "queue_item_dismissed"},
	}

	for _, tt := range tests {
		t.Run(tt.resolution, func(t *testing.T) {
			svc, _, audit, _ := newTestService()
			admin := uuid.New()

			item := submitReport(t, svc, uuid.New(), nil, 0)
			if _, err := svc.Claim(context.Background(), admin, item.ID); err != nil {
				t.Fatalf("Claim: %v", err)
			}

			resolved, err := svc.Resolve(context.Background(), admin, item.ID, &ResolveRequest{
				Resolution: tt.resolution,
				Reason:     "violates content policy",
			})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if resolved.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", resolved.Status, tt.wantStatus)
			}
			if !resolved.Resolution.Valid || resolved.Resolution.String != tt.resolution {
				t.Errorf("resolution = %+v", resolved.Resolution)
			}
			if audit.lastAction() != tt.wantAction {
				t.Errorf("audit action = %s, want %s", audit.lastAction(), tt.wantAction)
			}

			// Terminal items reject every further transition.
			_, err = svc.Claim(context.Background(), admin, item.ID)
			var policyErr *PolicyError
			if !errors.As(err, &policyErr) {
				t.Errorf("claim on terminal item: got %v", err)
			}
		})
	}
}

func TestResolveRequiresClaimByActor(t *testing.T) {
	svc, _, _, _ := newTestService()
	adminA := uuid.New()
	adminB := uuid.New()

	item := submitReport(t, svc, uuid.New(), nil, 0)

	// Unclaimed item cannot be resolved.
	_, err := svc.Resolve(context.Background(), adminA, item.ID, &ResolveRequest{Resolution: "removed", Reason: "spam"})
	var policyErr *PolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PolicyError, got %v", err)
	}

	if _, err := svc.Claim(context.Background(), adminA, item.ID); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	// Claimed by someone else.
	_, err = svc.Resolve(context.Background(), adminB, item.ID, &ResolveRequest{Resolution: "removed", Reason: "spam"})
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PolicyError, got %v", err)
	}
}

func TestGetUnknownItem(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestListSortsAndFilters(t *testing.T) {
	svc, repo, _, _ := newTestService()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, p := range []int{2, 9, 5, 9} {
		id := uuid.New()
		repo.items[id] = &QueueItem{
			ID:        id,
			ItemType:  ItemTypeReport,
			Priority:  p,
			Status:    StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}

	items, total, err := svc.List(context.Background(), Filter{}, 50, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !IsOrdered(items) {
		t.Error("List output not in queue order")
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}

	band := BandHigh
	high, highTotal, err := svc.List(context.Background(), Filter{Band: &band}, 50, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(high) != 2 {
		t.Errorf("high band returned %d items, want 2", len(high))
	}
	if highTotal != 2 {
		t.Errorf("high band total = %d, want 2", highTotal)
	}
}

func TestListPaginatesInQueueOrder(t *testing.T) {
	svc, repo, _, _ := newTestService()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	priorities := []int{2, 9, 5, 9, 7, 3}
	for i, p := range priorities {
		id := uuid.New()
		repo.items[id] = &QueueItem{
			ID:        id,
			ItemType:  ItemTypeReport,
			Priority:  p,
			Status:    StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}

	// Page boundaries never break the global order: walking the pages
	// yields priorities 9,9,7,5,3,2.
	want := []int{9, 9, 7, 5, 3, 2}
	var got []int
	for offset := 0; offset < len(priorities); offset += 2 {
		page, total, err := svc.List(context.Background(), Filter{}, 2, offset)
		if err != nil {
			t.Fatalf("List offset %d: %v", offset, err)
		}
		if total != len(priorities) {
			t.Errorf("total = %d, want %d (match count, not page size)", total, len(priorities))
		}
		for _, item := range page {
			got = append(got, item.Priority)
		}
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paged priorities = %v, want %v", got, want)
		}
	}

	// A filtered page still reports the full match count.
	band := BandHigh
	page, total, err := svc.List(context.Background(), Filter{Band: &band}, 1, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 1 || total != 3 {
		t.Errorf("filtered page = %d items, total = %d; want 1 item, total 3", len(page), total)
	}
}
