package moderation

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hackhub/hackhub-admin-api/internal/domain/notification"
	"github.com/hackhub/hackhub-admin-api/internal/domain/team"
)

type fakeModRepo struct {
	users     map[uuid.UUID]*User
	snapshots map[uuid.UUID]*CascadeInput
	records   []*BanRecord
}

func newFakeModRepo() *fakeModRepo {
	return &fakeModRepo{
		users:     make(map[uuid.UUID]*User),
		snapshots: make(map[uuid.UUID]*CascadeInput),
	}
}

func (f *fakeModRepo) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeModRepo) Snapshot(ctx context.Context, userID uuid.UUID) (*CascadeInput, error) {
	if in, ok := f.snapshots[userID]; ok {
		return in, nil
	}
	return &CascadeInput{UserID: userID}, nil
}

func (f *fakeModRepo) SetBanned(ctx context.Context, userID uuid.UUID, reason string) (*User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	if u.Status != UserStatusActive {
		return nil, ErrAlreadyBanned
	}
	u.Status = UserStatusBanned
	u.BanReason = sql.NullString{String: reason, Valid: true}
	u.BannedAt = sql.NullTime{Time: time.Now(), Valid: true}
	copied := *u
	return &copied, nil
}

func (f *fakeModRepo) SetActive(ctx context.Context, userID uuid.UUID) (*User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	if u.Status != UserStatusBanned {
		return nil, ErrNotBanned
	}
	u.Status = UserStatusActive
	u.BanReason = sql.NullString{}
	u.BannedAt = sql.NullTime{}
	copied := *u
	return &copied, nil
}

func (f *fakeModRepo) CreateBanRecord(ctx context.Context, record *BanRecord) error {
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	f.records = append(f.records, record)
	return nil
}

func (f *fakeModRepo) ListBanRecords(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*BanRecord, error) {
	return f.records, nil
}

type fakeHackathonStore struct {
	unpublished []uuid.UUID
	failOn      map[uuid.UUID]bool
}

func (f *fakeHackathonStore) Unpublish(ctx context.Context, id uuid.UUID, note string) error {
	if f.failOn[id] {
		return errors.New("storage unavailable")
	}
	f.unpublished = append(f.unpublished, id)
	return nil
}

type fakeTeamStore struct {
	removed     []uuid.UUID
	failOn      map[uuid.UUID]bool
	memberships map[uuid.UUID][]*team.Membership
}

func (f *fakeTeamStore) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	if f.failOn[teamID] {
		return errors.New("storage unavailable")
	}
	f.removed = append(f.removed, teamID)
	return nil
}

func (f *fakeTeamStore) ListMembershipsByUser(ctx context.Context, userID uuid.UUID) ([]*team.Membership, error) {
	return f.memberships[userID], nil
}

type fakeNotifier struct {
	direct    []uuid.UUID
	fannedTo  []uuid.UUID
	delivered map[uuid.UUID][]*notification.Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, typ notification.Type, message string) error {
	f.direct = append(f.direct, userID)
	return nil
}

func (f *fakeNotifier) NotifyUsers(ctx context.Context, userIDs []uuid.UUID, typ notification.Type, message string) (int, error) {
	f.fannedTo = append(f.fannedTo, userIDs...)
	return len(userIDs), nil
}

func (f *fakeNotifier) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*notification.Notification, error) {
	return f.delivered[userID], nil
}

type auditEntry struct {
	action   string
	targetID uuid.UUID
}

type fakeAudit struct {
	entries []auditEntry
}

func (f *fakeAudit) LogActionWithReason(ctx context.Context, adminID uuid.UUID, action, targetType string, targetID uuid.UUID, reason string, beforeState, afterState interface{}) {
	f.entries = append(f.entries, auditEntry{action: action, targetID: targetID})
}

func (f *fakeAudit) count(action string) int {
	n := 0
	for _, e := range f.entries {
		if e.action == action {
			n++
		}
	}
	return n
}

func activeUser(role UserRole) *User {
	return &User{
		ID:     uuid.New(),
		Email:  "user@hackhub.dev",
		Name:   "Test User",
		Role:   role,
		Status: UserStatusActive,
	}
}

func newBanFixture() (*Service, *fakeModRepo, *fakeHackathonStore, *fakeTeamStore, *fakeNotifier, *fakeAudit) {
	repo := newFakeModRepo()
	hackathons := &fakeHackathonStore{failOn: map[uuid.UUID]bool{}}
	teams := &fakeTeamStore{
		failOn:      map[uuid.UUID]bool{},
		memberships: map[uuid.UUID][]*team.Membership{},
	}
	notifier := &fakeNotifier{delivered: map[uuid.UUID][]*notification.Notification{}}
	audit := &fakeAudit{}
	svc := NewService(repo, hackathons, teams, notifier, audit)
	return svc, repo, hackathons, teams, notifier, audit
}

func TestBanUserFullCascade(t *testing.T) {
	svc, repo, hackathons, teams, notifier, audit := newBanFixture()

	user := activeUser(RoleOrganizer)
	repo.users[user.ID] = user

	hackathonIDs := uuids(2)
	teamIDs := uuids(2)
	teammates := uuids(3)
	repo.snapshots[user.ID] = &CascadeInput{
		UserID:             user.ID,
		IsOrganizer:        true,
		ActiveHackathonIDs: hackathonIDs,
		TeamIDs:            teamIDs,
		AffectedUserIDs:    teammates,
	}

	adminID := uuid.New()
	summary, err := svc.BanUser(context.Background(), adminID, user.ID, "tos violation")
	if err != nil {
		t.Fatalf("BanUser: %v", err)
	}

	if summary.HackathonsUnpublished != 2 {
		t.Errorf("hackathons unpublished = %d, want 2", summary.HackathonsUnpublished)
	}
	if summary.TeamsRemoved != 2 {
		t.Errorf("teams removed = %d, want 2", summary.TeamsRemoved)
	}
	if summary.NotificationsSent != 3 {
		t.Errorf("notifications sent = %d, want 3", summary.NotificationsSent)
	}
	if len(summary.AffectedUsers) != 3 {
		t.Errorf("affected users = %v", summary.AffectedUsers)
	}
	if len(summary.Failures()) != 0 {
		t.Errorf("unexpected failures: %v", summary.Failures())
	}

	if repo.users[user.ID].Status != UserStatusBanned {
		t.Error("user not banned")
	}
	if len(hackathons.unpublished) != 2 || len(teams.removed) != 2 {
		t.Errorf("side effects: hackathons %v, teams %v", hackathons.unpublished, teams.removed)
	}
	if len(notifier.direct) != 1 || notifier.direct[0] != user.ID {
		t.Errorf("banned user not notified directly: %v", notifier.direct)
	}

	// One top-level ban entry plus one per unpublished hackathon.
	if audit.count("user_banned") != 1 {
		t.Errorf("user_banned audit entries = %d", audit.count("user_banned"))
	}
	if audit.count("hackathon_unpublished") != 2 {
		t.Errorf("hackathon_unpublished audit entries = %d", audit.count("hackathon_unpublished"))
	}

	if len(repo.records) != 1 {
		t.Fatalf("ban records = %d, want 1", len(repo.records))
	}
	record := repo.records[0]
	if record.HackathonsUnpublished != 2 || record.TeamsRemoved != 2 || record.NotificationsSent != 3 {
		t.Errorf("ban record counts: %+v", record)
	}
	if record.FailedActions != 0 {
		t.Errorf("ban record failed actions = %d", record.FailedActions)
	}
}

func TestBanUserPartialFailureIsolation(t *testing.T) {
	svc, repo, hackathons, teams, _, audit := newBanFixture()

	user := activeUser(RoleOrganizer)
	repo.users[user.ID] = user

	hackathonIDs := uuids(3)
	teamIDs := uuids(2)
	repo.snapshots[user.ID] = &CascadeInput{
		UserID:             user.ID,
		IsOrganizer:        true,
		ActiveHackathonIDs: hackathonIDs,
		TeamIDs:            teamIDs,
	}

	// Second hackathon and first team fail; everything else proceeds.
	hackathons.failOn[hackathonIDs[1]] = true
	teams.failOn[teamIDs[0]] = true

	summary, err := svc.BanUser(context.Background(), uuid.New(), user.ID, "spam")
	if err != nil {
		t.Fatalf("BanUser: %v", err)
	}

	if summary.HackathonsUnpublished != 2 {
		t.Errorf("hackathons unpublished = %d, want 2", summary.HackathonsUnpublished)
	}
	if summary.TeamsRemoved != 1 {
		t.Errorf("teams removed = %d, want 1", summary.TeamsRemoved)
	}
	if len(summary.Failures()) != 2 {
		t.Errorf("failures = %v, want 2 entries", summary.Failures())
	}

	// The ban itself and its audit entry always land.
	if repo.users[user.ID].Status != UserStatusBanned {
		t.Error("partial cascade failure blocked the ban")
	}
	if audit.count("user_banned") != 1 {
		t.Error("missing top-level ban audit entry")
	}

	if len(repo.records) != 1 || repo.records[0].FailedActions != 2 {
		t.Errorf("ban record did not capture failures: %+v", repo.records)
	}
	if !repo.records[0].FailureDetail.Valid {
		t.Error("ban record missing failure detail")
	}
}

func TestBanUserNonOrganizerSkipsUnpublish(t *testing.T) {
	svc, repo, hackathons, _, _, _ := newBanFixture()

	user := activeUser(RoleParticipant)
	repo.users[user.ID] = user
	repo.snapshots[user.ID] = &CascadeInput{
		UserID:  user.ID,
		TeamIDs: uuids(1),
	}

	summary, err := svc.BanUser(context.Background(), uuid.New(), user.ID, "spam")
	if err != nil {
		t.Fatalf("BanUser: %v", err)
	}

	if summary.HackathonsUnpublished != 0 || len(hackathons.unpublished) != 0 {
		t.Error("non-organizer ban unpublished hackathons")
	}
	if summary.TeamsRemoved != 1 {
		t.Errorf("teams removed = %d, want 1", summary.TeamsRemoved)
	}
}

func TestBanUserAlreadyBanned(t *testing.T) {
	svc, repo, _, _, _, _ := newBanFixture()

	user := activeUser(RoleParticipant)
	user.Status = UserStatusBanned
	repo.users[user.ID] = user

	_, err := svc.BanUser(context.Background(), uuid.New(), user.ID, "again")
	if !errors.Is(err, ErrAlreadyBanned) {
		t.Errorf("expected ErrAlreadyBanned, got %v", err)
	}
}

func TestBanUserNotFound(t *testing.T) {
	svc, _, _, _, _, _ := newBanFixture()

	_, err := svc.BanUser(context.Background(), uuid.New(), uuid.New(), "spam")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTeamMemberships(t *testing.T) {
	svc, repo, _, teams, _, _ := newBanFixture()

	user := activeUser(RoleParticipant)
	repo.users[user.ID] = user
	teams.memberships[user.ID] = []*team.Membership{
		{ID: uuid.New(), TeamID: uuid.New(), UserID: user.ID, Role: team.RoleLeader},
		{ID: uuid.New(), TeamID: uuid.New(), UserID: user.ID, Role: team.RoleMember},
	}

	memberships, err := svc.TeamMemberships(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("TeamMemberships: %v", err)
	}
	if len(memberships) != 2 {
		t.Errorf("memberships = %d, want 2", len(memberships))
	}

	_, err = svc.TeamMemberships(context.Background(), uuid.New())
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserNotifications(t *testing.T) {
	svc, repo, _, _, notifier, _ := newBanFixture()

	user := activeUser(RoleParticipant)
	repo.users[user.ID] = user
	notifier.delivered[user.ID] = []*notification.Notification{
		{ID: uuid.New(), UserID: user.ID, Type: notification.TypeAccountBanned, Message: "banned"},
	}

	notifications, err := svc.UserNotifications(context.Background(), user.ID, 20, 0)
	if err != nil {
		t.Fatalf("UserNotifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Errorf("notifications = %d, want 1", len(notifications))
	}

	_, err = svc.UserNotifications(context.Background(), uuid.New(), 20, 0)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUnbanUser(t *testing.T) {
	svc, repo, _, _, _, audit := newBanFixture()

	user := activeUser(RoleParticipant)
	user.Status = UserStatusBanned
	repo.users[user.ID] = user

	restored, err := svc.UnbanUser(context.Background(), uuid.New(), user.ID, "appeal accepted")
	if err != nil {
		t.Fatalf("UnbanUser: %v", err)
	}
	if restored.Status != UserStatusActive {
		t.Errorf("status = %s, want active", restored.Status)
	}
	if audit.count("user_unbanned") != 1 {
		t.Error("missing unban audit entry")
	}

	// Unbanning an active user is a policy violation.
	_, err = svc.UnbanUser(context.Background(), uuid.New(), user.ID, "again")
	if !errors.Is(err, ErrNotBanned) {
		t.Errorf("expected ErrNotBanned, got %v", err)
	}
}
