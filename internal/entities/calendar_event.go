package entities

import "time"

type EventKind string

const (
	EventReservation EventKind = "reservation"
	EventBlock       EventKind = "block"
)

// CalendarEvent is the read-only view of an event in the remote calendar.
type CalendarEvent struct {
	ID    string    `json:"id"`
	Title string    `json:"titolo"`
	Start time.Time `json:"inizio"`
	End   time.Time `json:"fine"`
	Time  string    `json:"orario"`
	Kind  EventKind `json:"tipo"`
}
