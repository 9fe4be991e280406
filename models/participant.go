package models

import (
	"strings"
	"time"
)

// Participant is a registered entrant of a tournament: one player, or a
// pre-formed team whose PlayerID is the composite "player1_player2".
type Participant struct {
	ID               string    `json:"id" db:"id"`
	TournamentID     string    `json:"tournamentId" db:"tournament_id"`
	PlayerID         string    `json:"playerId" db:"player_id"`
	PlayerName       string    `json:"playerName" db:"player_name"`
	SkillLevel       *string   `json:"skillLevel,omitempty" db:"skill_level"`
	PartnerID        *string   `json:"partnerId,omitempty" db:"partner_id"`
	PartnerName      *string   `json:"partnerName,omitempty" db:"partner_name"`
	PartnerConfirmed bool      `json:"partnerConfirmed" db:"partner_confirmed"`
	TeamID           *string   `json:"teamId,omitempty" db:"team_id"`
	RegisteredBy     string    `json:"registeredBy" db:"registered_by"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

const teamPlayerSeparator = "_"

// TeamPlayerID builds the composite player id of a pre-formed team.
func TeamPlayerID(player1ID, player2ID string) string {
	return player1ID + teamPlayerSeparator + player2ID
}

// HasMember reports whether userID plays in this registration.
func (p *Participant) HasMember(userID string) bool {
	if p.PlayerID == userID {
		return true
	}
	if p.PartnerID != nil && *p.PartnerID == userID {
		return true
	}
	first, _, composite := strings.Cut(p.PlayerID, teamPlayerSeparator)
	return composite && first == userID
}
