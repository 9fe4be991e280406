package models

import "time"

type ChatRoomType string

const ChatRoomDirect ChatRoomType = "direct"

type ChatRoom struct {
	ID        string       `json:"id" db:"id"`
	Type      ChatRoomType `json:"type" db:"type"`
	EventID   *string      `json:"eventId,omitempty" db:"event_id"`
	MemberIDs []string     `json:"memberIds" db:"-"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
}

func (c *ChatRoom) HasMember(userID string) bool {
	for _, id := range c.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
