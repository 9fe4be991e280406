package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/club-tournaments/models"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserEmailConflict   = errors.New("email address is already in use")
	ErrClubNotFound        = errors.New("club not found")
	ErrMembershipNotFound  = errors.New("club membership not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantConflict = errors.New("participant conflict: player already registered for this tournament")
	ErrApplicationNotFound = errors.New("application not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrChatRoomNotFound    = errors.New("chat room not found")
)

type ListTournamentsFilter struct {
	ClubID *string
	Status *models.TournamentStatus
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id string) (*models.Club, error)
	UpsertMembership(ctx context.Context, m *models.Membership) error
	GetMembership(ctx context.Context, clubID, userID string) (*models.Membership, error)
}

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
}

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, t *models.Tournament) error
	IncrementParticipantCount(ctx context.Context, id string, delta int) error
	UpdateLogoKey(ctx context.Context, id string, logoKey *string) error
	ListRegistrationPastDeadline(ctx context.Context, now time.Time) ([]models.Tournament, error)
}

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	// FindByMember returns the registration userID plays in, whether as the
	// player, the partner, or the first member of a team.
	FindByMember(ctx context.Context, tournamentID, userID string) (*models.Participant, error)
	FindByPlayerID(ctx context.Context, tournamentID, playerID string) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Participant, error)
	CountByTournament(ctx context.Context, tournamentID string) (int, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, a *models.Activity) error
	ListByTournament(ctx context.Context, tournamentID string, limit int) ([]models.Activity, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	// FindActiveByApplicant returns a pending or approved application.
	FindActiveByApplicant(ctx context.Context, eventID, applicantID string) (*models.Application, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Application, error)
	// ListByEventForUpdate is ListByEvent with the rows locked until the
	// enclosing transaction ends.
	ListByEventForUpdate(ctx context.Context, eventID string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, at time.Time) error
}

// EventRepository reads the event variants. Tournaments are read from the
// tournaments table; the other kinds have a table each.
type EventRepository interface {
	Create(ctx context.Context, e *models.Event) error
	FindByID(ctx context.Context, kind models.EventKind, id string) (*models.Event, error)
}

type ChatRoomRepository interface {
	Create(ctx context.Context, room *models.ChatRoom) error
	FindDirectRoom(ctx context.Context, userA, userB string) (*models.ChatRoom, error)
	AddMember(ctx context.Context, roomID, userID string) error
}

// Store groups the repositories and runs units of work atomically. The Store
// handed to fn by RunInTx is bound to the transaction; every write made
// through it commits or rolls back together.
type Store interface {
	Users() UserRepository
	Clubs() ClubRepository
	Teams() TeamRepository
	Tournaments() TournamentRepository
	Participants() ParticipantRepository
	Activities() ActivityRepository
	Applications() ApplicationRepository
	Events() EventRepository
	ChatRooms() ChatRoomRepository
	RunInTx(ctx context.Context, fn func(tx Store) error) error
}
