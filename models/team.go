package models

import "time"

// Team is a pre-formed doubles pair. Membership never changes after creation.
type Team struct {
	ID        string    `json:"id" db:"id"`
	Player1ID string    `json:"player1Id" db:"player1_id"`
	Player2ID string    `json:"player2Id" db:"player2_id"`
	TeamName  string    `json:"teamName" db:"team_name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (t *Team) HasPlayer(userID string) bool {
	return t.Player1ID == userID || t.Player2ID == userID
}
