package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/club-tournaments/models"
	"github.com/Dosada05/club-tournaments/repositories"
	"github.com/Dosada05/club-tournaments/utils"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	utils.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

const (
	testClubID = "club-1"
	testHostID = "host"
)

type recordingNotifier struct {
	mu         sync.Mutex
	activities []models.Activity
}

func (n *recordingNotifier) PublishActivity(a models.Activity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activities = append(n.activities, a)
}

func (n *recordingNotifier) types() []models.ActivityType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.ActivityType, len(n.activities))
	for i, a := range n.activities {
		out[i] = a.Type
	}
	return out
}

type testEnv struct {
	store         *repositories.MemoryStore
	notifier      *recordingNotifier
	tournaments   *tournamentService
	registrations *registrationService
	applications  *applicationService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repositories.NewMemoryStore()
	notifier := &recordingNotifier{}
	logger := discardLogger()

	env := &testEnv{
		store:         store,
		notifier:      notifier,
		tournaments:   NewTournamentService(store, nil, notifier, logger).(*tournamentService),
		registrations: NewRegistrationService(store, notifier, logger).(*registrationService),
		applications:  NewApplicationService(store, notifier, logger).(*applicationService),
	}
	env.addUser(t, testHostID, "Host")
	env.addClub(t, testClubID, testHostID)
	return env
}

func (e *testEnv) addUser(t *testing.T, id, name string) *models.User {
	t.Helper()
	u := &models.User{ID: id, DisplayName: name, Email: id + "@club.org", PasswordHash: "x", CreatedAt: time.Now().UTC()}
	if err := e.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("add user %s: %v", id, err)
	}
	return u
}

func (e *testEnv) addClub(t *testing.T, clubID, adminID string) {
	t.Helper()
	ctx := context.Background()
	if err := e.store.Clubs().Create(ctx, &models.Club{ID: clubID, Name: "Club " + clubID, CreatedBy: adminID}); err != nil {
		t.Fatalf("add club: %v", err)
	}
	e.setRole(t, clubID, adminID, models.RoleAdmin)
}

func (e *testEnv) setRole(t *testing.T, clubID, userID string, role models.MembershipRole) {
	t.Helper()
	err := e.store.Clubs().UpsertMembership(context.Background(), &models.Membership{ClubID: clubID, UserID: userID, Role: role})
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
}

func validCreateInput(eventType models.EventType, min, max int) CreateTournamentInput {
	start := time.Now().Add(48 * time.Hour)
	return CreateTournamentInput{
		ClubID:               testClubID,
		Title:                "Autumn Open",
		EventType:            eventType,
		Format:               models.FormatSingleElimination,
		Settings:             ParticipantLimits{MinParticipants: min, MaxParticipants: max},
		StartDate:            start,
		EndDate:              start.Add(24 * time.Hour),
		RegistrationDeadline: start.Add(-24 * time.Hour),
	}
}

func (e *testEnv) createTournament(t *testing.T, eventType models.EventType, min, max int) *models.Tournament {
	t.Helper()
	tour, err := e.tournaments.CreateTournament(context.Background(), testHostID, validCreateInput(eventType, min, max))
	if err != nil {
		t.Fatalf("create tournament: %v", err)
	}
	return tour
}

func (e *testEnv) openTournament(t *testing.T, eventType models.EventType, min, max int) *models.Tournament {
	t.Helper()
	tour := e.createTournament(t, eventType, min, max)
	e.setStatus(t, tour.ID, models.StatusRegistration)
	return tour
}

func (e *testEnv) setStatus(t *testing.T, tournamentID string, status models.TournamentStatus) *models.Tournament {
	t.Helper()
	tour, err := e.tournaments.UpdateTournamentStatus(context.Background(), testHostID,
		UpdateStatusInput{TournamentID: tournamentID, Status: status})
	if err != nil {
		t.Fatalf("set status %s: %v", status, err)
	}
	return tour
}

func (e *testEnv) register(t *testing.T, tournamentID, userID string) *models.Participant {
	t.Helper()
	p, err := e.registrations.RegisterForTournament(context.Background(), userID,
		RegistrationInput{TournamentID: tournamentID, UserID: userID})
	if err != nil {
		t.Fatalf("register %s: %v", userID, err)
	}
	return p
}

func (e *testEnv) tournament(t *testing.T, id string) *models.Tournament {
	t.Helper()
	tour, err := e.store.Tournaments().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get tournament: %v", err)
	}
	return tour
}

func assertCode(t *testing.T, err error, want ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := CodeOf(err); got != want {
		t.Fatalf("expected code %s, got %s (%v)", want, got, err)
	}
}

func assertIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}
