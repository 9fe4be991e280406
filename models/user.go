package models

import "time"

type User struct {
	ID           string    `json:"id" db:"id"`
	DisplayName  string    `json:"displayName" db:"display_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	SkillLevel   *string   `json:"skillLevel,omitempty" db:"skill_level"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
