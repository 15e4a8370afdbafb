package domain

import "fmt"

// EventKind is the durable log category of a room event.
type EventKind string

const (
	EventJoin  EventKind = "join"
	EventLeave EventKind = "leave"
	EventChat  EventKind = "chat"
)

// FormatEvent renders the broadcast line for a room event. The same text is
// persisted by the durable log and fanned out to room members.
func FormatEvent(kind EventKind, user, content string) string {
	switch kind {
	case EventJoin:
		return fmt.Sprintf("%s has joined the room", user)
	case EventLeave:
		return fmt.Sprintf("%s has left the room", user)
	default:
		return fmt.Sprintf("%s: %s", user, content)
	}
}
