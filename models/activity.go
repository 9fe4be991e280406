package models

import "time"

type ActivityType string

const (
	ActivityTournamentCreated       ActivityType = "tournament_created"
	ActivityTournamentStatusChanged ActivityType = "tournament_status_changed"
	ActivityTournamentRegistration  ActivityType = "tournament_registration"
	ActivityApplicationApproved     ActivityType = "application_approved"
)

// Activity is an append-only audit record.
type Activity struct {
	ID             string            `json:"id" db:"id"`
	Type           ActivityType      `json:"type" db:"type"`
	TournamentID   *string           `json:"tournamentId,omitempty" db:"tournament_id"`
	EventID        *string           `json:"eventId,omitempty" db:"event_id"`
	ClubID         *string           `json:"clubId,omitempty" db:"club_id"`
	UserID         string            `json:"userId" db:"user_id"`
	PreviousStatus *TournamentStatus `json:"previousStatus,omitempty" db:"previous_status"`
	NewStatus      *TournamentStatus `json:"newStatus,omitempty" db:"new_status"`
	CreatedAt      time.Time         `json:"createdAt" db:"created_at"`
}
