package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/club-tournaments/models"
	"github.com/Dosada05/club-tournaments/repositories"
)

func (e *testEnv) addApplication(t *testing.T, id, eventID, applicantID string, partnerID *string, status models.ApplicationStatus) {
	t.Helper()
	now := time.Now().UTC()
	err := e.store.Applications().Create(context.Background(), &models.Application{
		ID: id, EventID: eventID, ApplicantID: applicantID, PartnerID: partnerID, Status: status, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("add application: %v", err)
	}
}

func (e *testEnv) addEvent(t *testing.T, kind models.EventKind, id string, max int) {
	t.Helper()
	err := e.store.Events().Create(context.Background(), &models.Event{ID: id, Kind: kind, HostID: testHostID, Title: "Event " + id, MaxParticipants: max})
	if err != nil {
		t.Fatalf("add event: %v", err)
	}
}

func (e *testEnv) applicationStatus(t *testing.T, id string) models.ApplicationStatus {
	t.Helper()
	a, err := e.store.Applications().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get application %s: %v", id, err)
	}
	return a.Status
}

func TestResolveEvent_OrderedLookup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addEvent(t, models.EventKindLightning, "lightning-1", 0)
	env.addEvent(t, models.EventKindEvent, "generic-1", 0)
	env.addEvent(t, models.EventKindLeague, "shared", 0)
	env.addEvent(t, models.EventKindEvent, "shared", 0)
	tour := env.createTournament(t, models.EventMensSingles, 2, 8)

	tests := []struct {
		id   string
		kind models.EventKind
	}{
		{"lightning-1", models.EventKindLightning},
		{"generic-1", models.EventKindEvent},
		{"shared", models.EventKindLeague},
		{tour.ID, models.EventKindTournament},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			e, err := resolveEvent(ctx, env.store, tt.id)
			if err != nil {
				t.Fatalf("resolveEvent: %v", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", e.Kind, tt.kind)
			}
		})
	}

	_, err := resolveEvent(ctx, env.store, "missing")
	assertCode(t, err, CodeNotFound)
	if err.Error() != "Event not found in any collection" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestApproveApplication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addEvent(t, models.EventKindLeague, "league-1", 0)
	env.addApplication(t, "app-1", "league-1", "alice", nil, models.ApplicationPending)

	res, err := env.applications.ApproveApplication(ctx, testHostID, ApproveApplicationInput{
		ApplicationID: "app-1", HostID: testHostID, EventID: "league-1", ApplicantID: "alice",
	})
	if err != nil {
		t.Fatalf("ApproveApplication: %v", err)
	}
	if res.EventKind != string(models.EventKindLeague) || res.ChatRoomID == "" {
		t.Errorf("unexpected result %+v", res)
	}
	if got := env.applicationStatus(t, "app-1"); got != models.ApplicationApproved {
		t.Errorf("status = %s, want approved", got)
	}

	room, err := env.store.ChatRooms().FindDirectRoom(ctx, testHostID, "alice")
	if err != nil || room.ID != res.ChatRoomID {
		t.Fatalf("expected direct room %s, got %v, %v", res.ChatRoomID, room, err)
	}

	t.Run("reuses chat room", func(t *testing.T) {
		env.addEvent(t, models.EventKindEvent, "event-2", 0)
		env.addApplication(t, "app-2", "event-2", "alice", nil, models.ApplicationPending)
		res2, err := env.applications.ApproveApplication(ctx, testHostID, ApproveApplicationInput{ApplicationID: "app-2"})
		if err != nil {
			t.Fatalf("second approval: %v", err)
		}
		if res2.ChatRoomID != res.ChatRoomID {
			t.Errorf("expected chat room reuse, got %s and %s", res.ChatRoomID, res2.ChatRoomID)
		}
	})

	t.Run("already approved", func(t *testing.T) {
		_, err := env.applications.ApproveApplication(ctx, testHostID, ApproveApplicationInput{ApplicationID: "app-1"})
		assertCode(t, err, CodeFailedPrecondition)
		assertIs(t, err, ErrApplicationNotPending)
	})
}

func TestApproveApplication_PartnerAndCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addEvent(t, models.EventKindLightning, "flash", 2)
	env.addApplication(t, "app-a", "flash", "alice", strPtr("bob"), models.ApplicationPending)
	env.addApplication(t, "app-b", "flash", "bob", strPtr("alice"), models.ApplicationPending)
	env.addApplication(t, "app-c", "flash", "carol", nil, models.ApplicationPending)
	env.addApplication(t, "app-d", "flash", "dave", nil, models.ApplicationRejected)

	res, err := env.applications.ApproveApplication(ctx, testHostID, ApproveApplicationInput{ApplicationID: "app-a"})
	if err != nil {
		t.Fatalf("ApproveApplication: %v", err)
	}
	if res.PartnerApplicationID == nil || *res.PartnerApplicationID != "app-b" {
		t.Errorf("expected partner application app-b, got %v", res.PartnerApplicationID)
	}
	if len(res.RejectedApplicationIDs) != 1 || res.RejectedApplicationIDs[0] != "app-c" {
		t.Errorf("expected app-c rejected, got %v", res.RejectedApplicationIDs)
	}

	want := map[string]models.ApplicationStatus{
		"app-a": models.ApplicationApproved,
		"app-b": models.ApplicationApproved,
		"app-c": models.ApplicationRejected,
		"app-d": models.ApplicationRejected,
	}
	for id, status := range want {
		if got := env.applicationStatus(t, id); got != status {
			t.Errorf("%s status = %s, want %s", id, got, status)
		}
	}

	room, err := env.store.ChatRooms().FindDirectRoom(ctx, testHostID, "alice")
	if err != nil {
		t.Fatalf("find room: %v", err)
	}
	if !room.HasMember("bob") {
		t.Errorf("partner should join the chat room, members %v", room.MemberIDs)
	}
}

func TestApproveApplication_NeverExceedsCapacity(t *testing.T) {
	ctx := context.Background()

	t.Run("single approval", func(t *testing.T) {
		env := newTestEnv(t)
		env.addEvent(t, models.EventKindLightning, "solo", 1)
		env.addApplication(t, "app-alice", "solo", "alice", nil, models.ApplicationPending)
		if _, err := env.applications.ApproveApplication(ctx, testHostID, ApproveApplicationInput{ApplicationID: "app-alice"}); err != nil {
			t.Fatalf("first approval: %v", err)
		}

		env.addApplication(t, "app-bob", "solo", "bob", nil, models.ApplicationPending)
		_, err := env.applications.ApproveApplication(ctx, testHostID, ApproveApplicationInput{ApplicationID: "app-bob"})
		assertCode(t, err, CodeFailedPrecondition)
		assertIs(t, err, ErrEventFull)
		if got := env.applicationStatus(t, "app-bob"); got != models.ApplicationPending {
			t.Errorf("refused application status = %s, want pending", got)
		}
	})

	t.Run("partner would overflow", func(t *testing.T) {
		env := newTestEnv(t)
		env.addEvent(t, models.EventKindLightning, "duo", 1)
		env.addApplication(t, "app-x1", "duo", "x1", strPtr("x2"), models.ApplicationPending)
		env.addApplication(t, "app-x2", "duo", "x2", strPtr("x1"), models.ApplicationPending)

		_, err := env.applications.ApproveApplication(ctx, testHostID, ApproveApplicationInput{ApplicationID: "app-x1"})
		assertCode(t, err, CodeFailedPrecondition)
		assertIs(t, err, ErrEventFull)
		for _, id := range []string{"app-x1", "app-x2"} {
			if got := env.applicationStatus(t, id); got != models.ApplicationPending {
				t.Errorf("%s status = %s, want pending", id, got)
			}
		}
		if _, err := env.store.ChatRooms().FindDirectRoom(ctx, testHostID, "x1"); !errors.Is(err, repositories.ErrChatRoomNotFound) {
			t.Errorf("refused approval must not open a chat room, got %v", err)
		}
	})

	t.Run("unlimited event", func(t *testing.T) {
		env := newTestEnv(t)
		env.addEvent(t, models.EventKindEvent, "open", 0)
		for _, id := range []string{"a", "b", "c"} {
			env.addApplication(t, "app-"+id, "open", id, nil, models.ApplicationPending)
			if _, err := env.applications.ApproveApplication(ctx, testHostID, ApproveApplicationInput{ApplicationID: "app-" + id}); err != nil {
				t.Fatalf("approve %s: %v", id, err)
			}
		}
	})
}

func TestApproveApplication_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addEvent(t, models.EventKindEvent, "event-1", 0)
	env.addApplication(t, "app-1", "event-1", "alice", nil, models.ApplicationPending)
	env.addApplication(t, "orphan", "gone", "bob", nil, models.ApplicationPending)
	env.addApplication(t, "broken", "", "bob", nil, models.ApplicationPending)

	tests := []struct {
		name   string
		caller string
		input  ApproveApplicationInput
		code   ErrorCode
		target error
	}{
		{"missing application", testHostID, ApproveApplicationInput{ApplicationID: "nope"}, CodeNotFound, ErrApplicationNotFound},
		{"malformed application", testHostID, ApproveApplicationInput{ApplicationID: "broken"}, CodeInternal, ErrApplicationMalformed},
		{"event id mismatch", testHostID, ApproveApplicationInput{ApplicationID: "app-1", EventID: "event-2"}, CodeInternal, ErrApplicationMalformed},
		{"applicant mismatch", testHostID, ApproveApplicationInput{ApplicationID: "app-1", ApplicantID: "mallory"}, CodeInternal, ErrApplicationMalformed},
		{"event in no collection", testHostID, ApproveApplicationInput{ApplicationID: "orphan"}, CodeNotFound, ErrEventNotFound},
		{"caller not host", "alice", ApproveApplicationInput{ApplicationID: "app-1"}, CodePermissionDenied, ErrNotEventHost},
		{"claimed host differs", testHostID, ApproveApplicationInput{ApplicationID: "app-1", HostID: "someone"}, CodePermissionDenied, ErrNotEventHost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.applications.ApproveApplication(ctx, tt.caller, tt.input)
			assertCode(t, err, tt.code)
			assertIs(t, err, tt.target)
		})
	}
	if got := env.applicationStatus(t, "app-1"); got != models.ApplicationPending {
		t.Errorf("failed approvals must not change the application, got %s", got)
	}
}

func TestApproveApplication_CommitFailurePropagates(t *testing.T) {
	env := newTestEnv(t)
	env.addEvent(t, models.EventKindEvent, "event-1", 1)
	env.addApplication(t, "app-1", "event-1", "alice", nil, models.ApplicationPending)
	env.addApplication(t, "app-2", "event-1", "bob", nil, models.ApplicationPending)

	commitErr := errors.New("batch commit failed")
	env.store.SetCommitHook(func() error { return commitErr })
	_, err := env.applications.ApproveApplication(context.Background(), testHostID, ApproveApplicationInput{ApplicationID: "app-1"})
	if err != commitErr {
		t.Fatalf("expected commit error unchanged, got %v", err)
	}
	env.store.SetCommitHook(nil)

	for _, id := range []string{"app-1", "app-2"} {
		if got := env.applicationStatus(t, id); got != models.ApplicationPending {
			t.Errorf("%s status = %s after failed commit", id, got)
		}
	}
	if _, err := env.store.ChatRooms().FindDirectRoom(context.Background(), testHostID, "alice"); !errors.Is(err, repositories.ErrChatRoomNotFound) {
		t.Errorf("chat room must not survive a failed commit, got %v", err)
	}
}

func TestCreateApplication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "alice", "Alice")
	env.addUser(t, "bob", "Bob")
	tour := env.createTournament(t, models.EventMixedDoubles, 2, 8)

	app, err := env.applications.CreateApplication(ctx, "alice", CreateApplicationInput{EventID: tour.ID, PartnerID: "bob"})
	if err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	if app.Status != models.ApplicationPending || app.PartnerID == nil || *app.PartnerID != "bob" {
		t.Errorf("unexpected application %+v", app)
	}

	_, err = env.applications.CreateApplication(ctx, "alice", CreateApplicationInput{EventID: tour.ID})
	assertCode(t, err, CodeFailedPrecondition)
	assertIs(t, err, ErrApplicationExists)

	_, err = env.applications.CreateApplication(ctx, testHostID, CreateApplicationInput{EventID: tour.ID})
	assertCode(t, err, CodeInvalidArgument)

	_, err = env.applications.CreateApplication(ctx, "bob", CreateApplicationInput{EventID: tour.ID, PartnerID: "ghost"})
	assertCode(t, err, CodeNotFound)

	apps, err := env.applications.ListEventApplications(ctx, testHostID, tour.ID)
	if err != nil || len(apps) != 1 {
		t.Fatalf("expected one application for host, got %d, %v", len(apps), err)
	}
	_, err = env.applications.ListEventApplications(ctx, "alice", tour.ID)
	assertCode(t, err, CodePermissionDenied)

	res, err := env.applications.ApproveApplication(ctx, testHostID, ApproveApplicationInput{ApplicationID: app.ID})
	if err != nil {
		t.Fatalf("approve tournament application: %v", err)
	}
	if res.EventKind != string(models.EventKindTournament) {
		t.Errorf("expected tournament kind, got %s", res.EventKind)
	}
	acts, _ := env.store.Activities().ListByTournament(ctx, tour.ID, 1)
	if len(acts) != 1 || acts[0].Type != models.ActivityApplicationApproved {
		t.Errorf("expected application_approved activity on the tournament, got %+v", acts)
	}
}

func TestCreateApplication_EventFull(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addEvent(t, models.EventKindLightning, "solo", 1)

	app, err := env.applications.CreateApplication(ctx, "alice", CreateApplicationInput{EventID: "solo"})
	if err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	if _, err := env.applications.ApproveApplication(ctx, testHostID, ApproveApplicationInput{ApplicationID: app.ID}); err != nil {
		t.Fatalf("ApproveApplication: %v", err)
	}

	_, err = env.applications.CreateApplication(ctx, "bob", CreateApplicationInput{EventID: "solo"})
	assertCode(t, err, CodeFailedPrecondition)
	assertIs(t, err, ErrEventFull)

	apps, _ := env.store.Applications().ListByEvent(ctx, "solo")
	if len(apps) != 1 {
		t.Errorf("expected only the approved application, got %d", len(apps))
	}
}

func TestCreateEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	e, err := env.applications.CreateEvent(ctx, testHostID, CreateEventInput{Kind: models.EventKindLightning, Title: "Friday Flash", MaxParticipants: 6})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	got, err := resolveEvent(ctx, env.store, e.ID)
	if err != nil || got.Kind != models.EventKindLightning || got.HostID != testHostID {
		t.Errorf("unexpected resolved event %+v, %v", got, err)
	}

	for _, in := range []CreateEventInput{
		{Kind: models.EventKindTournament, Title: "x"},
		{Kind: "party", Title: "x"},
		{Kind: models.EventKindLeague, Title: " "},
		{Kind: models.EventKindLeague, Title: "x", MaxParticipants: -1},
	} {
		_, err := env.applications.CreateEvent(ctx, testHostID, in)
		assertCode(t, err, CodeInvalidArgument)
	}
}
