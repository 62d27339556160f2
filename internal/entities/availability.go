package entities

import "beachvolley/internal/db"

type SlotStatus string

const (
	SlotFree    SlotStatus = "free"
	SlotBooked  SlotStatus = "booked"
	SlotBlocked SlotStatus = "blocked"
)

// SlotView is the computed state of one grid label for a date.
type SlotView struct {
	Time        string          `json:"orario"`
	Available   bool            `json:"disponibile"`
	Status      SlotStatus      `json:"tipo"`
	Reservation *db.Reservation `json:"prenotazione"`
	Block       *db.BlockedSlot `json:"blocco,omitempty"`
	Event       *CalendarEvent  `json:"evento,omitempty"`
}

type BlockSource string

const (
	SourceReservation BlockSource = "prenotazione"
	SourceBlockedSlot BlockSource = "blocco"
	SourceCalendar    BlockSource = "calendario"
)

// BlockedEntry is one element of the merged blocked-slot set of a date.
type BlockedEntry struct {
	Time    string      `json:"orario"`
	Kind    string      `json:"tipo"`
	Reason  string      `json:"motivo"`
	Source  BlockSource `json:"origine"`
	EventID string      `json:"eventId,omitempty"`
}
