package models

// EventKind tags which collection an event was resolved from.
type EventKind string

const (
	EventKindLeague     EventKind = "league"
	EventKindTournament EventKind = "tournament"
	EventKindLightning  EventKind = "lightning"
	EventKindEvent      EventKind = "event"
)

func (k EventKind) Valid() bool {
	switch k {
	case EventKindLeague, EventKindTournament, EventKindLightning, EventKindEvent:
		return true
	}
	return false
}

// Event is the common view over leagues, tournaments, lightning events and
// generic events. MaxParticipants of zero means no capacity limit.
type Event struct {
	ID              string    `json:"id" db:"id"`
	Kind            EventKind `json:"kind" db:"-"`
	HostID          string    `json:"hostId" db:"host_id"`
	Title           string    `json:"title" db:"title"`
	MaxParticipants int       `json:"maxParticipants" db:"max_participants"`
}

func (e *Event) HasCapacityLimit() bool { return e.MaxParticipants > 0 }
