package models

import "time"

type MembershipRole string

const (
	RoleAdmin  MembershipRole = "admin"
	RoleMember MembershipRole = "member"
)

func (r MembershipRole) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type Club struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedBy string    `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Membership is the role a user holds within a club.
type Membership struct {
	ClubID    string         `json:"clubId" db:"club_id"`
	UserID    string         `json:"userId" db:"user_id"`
	Role      MembershipRole `json:"role" db:"role"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

func (m *Membership) IsAdmin() bool {
	return m != nil && m.Role == RoleAdmin
}
