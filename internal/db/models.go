package db

import "time"

const (
	StatusConfirmed = "confirmed"

	BlockKindBlocked  = "blocked"
	BlockKindOccupied = "occupied"
)

type Reservation struct {
	ID              string    `json:"id" bson:"_id"`
	Name            string    `json:"nome" bson:"nome"`
	Phone           string    `json:"telefono" bson:"telefono"`
	Date            string    `json:"data" bson:"data"`
	Time            string    `json:"orario" bson:"orario"`
	Players         int       `json:"numero_giocatori" bson:"numero_giocatori"`
	Note            string    `json:"note" bson:"note"`
	Status          string    `json:"stato" bson:"stato"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	ExternalEventID string    `json:"google_event_id,omitempty" bson:"google_event_id,omitempty"`
}

// BlockedSlot is unique per (Date, Time).
type BlockedSlot struct {
	Date      string    `json:"data" bson:"data"`
	Time      string    `json:"orario" bson:"orario"`
	Kind      string    `json:"tipo" bson:"tipo"`
	Reason    string    `json:"motivo" bson:"motivo"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type ConfigEntry struct {
	Key         string `json:"chiave" bson:"chiave"`
	Value       string `json:"valore" bson:"valore"`
	Description string `json:"descrizione" bson:"descrizione"`
}
