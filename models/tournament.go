package models

import (
	"strings"
	"time"
)

// TournamentStatus is a lifecycle state of a tournament.
type TournamentStatus string

const (
	StatusDraft             TournamentStatus = "draft"
	StatusRegistration      TournamentStatus = "registration"
	StatusBracketGeneration TournamentStatus = "bracket_generation"
	StatusInProgress        TournamentStatus = "in_progress"
	StatusCompleted         TournamentStatus = "completed"
	StatusCancelled         TournamentStatus = "cancelled"
)

// AllTournamentStatuses lists every status in lifecycle order.
var AllTournamentStatuses = []TournamentStatus{
	StatusDraft,
	StatusRegistration,
	StatusBracketGeneration,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

func (s TournamentStatus) Valid() bool {
	for _, known := range AllTournamentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// EventType describes who plays: singles or doubles, by category.
type EventType string

const (
	EventMensSingles   EventType = "mens_singles"
	EventWomensSingles EventType = "womens_singles"
	EventMensDoubles   EventType = "mens_doubles"
	EventWomensDoubles EventType = "womens_doubles"
	EventMixedDoubles  EventType = "mixed_doubles"
)

func (e EventType) Valid() bool {
	switch e {
	case EventMensSingles, EventWomensSingles, EventMensDoubles, EventWomensDoubles, EventMixedDoubles:
		return true
	}
	return false
}

func (e EventType) IsSingles() bool { return strings.HasSuffix(string(e), "_singles") }
func (e EventType) IsDoubles() bool { return strings.HasSuffix(string(e), "_doubles") }

type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatSingleElimination, FormatDoubleElimination, FormatRoundRobin:
		return true
	}
	return false
}

type TournamentSettings struct {
	MinParticipants int              `json:"minParticipants" db:"min_participants"`
	MaxParticipants int              `json:"maxParticipants" db:"max_participants"`
	EventType       EventType        `json:"eventType" db:"event_type"`
	Format          TournamentFormat `json:"format" db:"format"`
}

// Tournament is a club-hosted competition.
type Tournament struct {
	ID                   string             `json:"id" db:"id"`
	ClubID               string             `json:"clubId" db:"club_id"`
	CreatedBy            string             `json:"createdBy" db:"created_by"`
	Title                string             `json:"title" db:"title"`
	Slug                 string             `json:"slug" db:"slug"`
	Status               TournamentStatus   `json:"status" db:"status"`
	Settings             TournamentSettings `json:"settings"`
	ParticipantCount     int                `json:"participantCount" db:"participant_count"`
	TotalRounds          int                `json:"totalRounds" db:"total_rounds"`
	TotalMatches         int                `json:"totalMatches" db:"total_matches"`
	StartDate            time.Time          `json:"startDate" db:"start_date"`
	EndDate              time.Time          `json:"endDate" db:"end_date"`
	RegistrationDeadline time.Time          `json:"registrationDeadline" db:"registration_deadline"`
	LogoKey              *string            `json:"-" db:"logo_key"`
	LogoURL              *string            `json:"logoUrl,omitempty" db:"-"`
	CreatedAt            time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time          `json:"updatedAt" db:"updated_at"`
	CompletedAt          *time.Time         `json:"completedAt,omitempty" db:"completed_at"`
	CancelledAt          *time.Time         `json:"cancelledAt,omitempty" db:"cancelled_at"`
	CancellationReason   *string            `json:"cancellationReason,omitempty" db:"cancellation_reason"`
	CancelledBy          *string            `json:"cancelledBy,omitempty" db:"cancelled_by"`
}

func (t *Tournament) IsFull() bool {
	return t.ParticipantCount >= t.Settings.MaxParticipants
}
