package service

import (
	"beachvolley/internal/db"
	"beachvolley/internal/entities"
	"context"
)

// RemoteCalendar is the external calendar reservations are mirrored into.
// A nil RemoteCalendar disables mirroring and reconciliation.
type RemoteCalendar interface {
	ListEvents(ctx context.Context, date string) ([]entities.CalendarEvent, error)
	CreateReservationEvent(ctx context.Context, res db.Reservation) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}
