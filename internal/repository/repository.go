package repository

import (
	"beachvolley/internal/db"
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

type ReservationStore interface {
	CreateReservation(ctx context.Context, res *db.Reservation) error
	// ListReservations returns every reservation when date is empty.
	ListReservations(ctx context.Context, date string) ([]db.Reservation, error)
	GetReservation(ctx context.Context, id string) (*db.Reservation, error)
	DeleteReservation(ctx context.Context, id string) (bool, error)
	SetExternalEventID(ctx context.Context, id, eventID string) error
	CountConfirmed(ctx context.Context, date, slot string) (int, error)
	CountByDates(ctx context.Context, dates []string) (int, error)
	UpcomingDates(ctx context.Context, from string) ([]string, error)
}

type BlockedSlotStore interface {
	// ListBlockedSlots returns every entry when date is empty.
	ListBlockedSlots(ctx context.Context, date string) ([]db.BlockedSlot, error)
	CountBlocked(ctx context.Context, date, slot string) (int, error)
	UpsertBlockedSlot(ctx context.Context, slot *db.BlockedSlot) error
	DeleteBlockedSlot(ctx context.Context, date, slot string) (bool, error)
}

type ConfigStore interface {
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
	// SeedDefaults inserts the entries whose key is not stored yet.
	SeedDefaults(ctx context.Context, entries []db.ConfigEntry) error
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Reservations ReservationStore
	BlockedSlots BlockedSlotStore
	Config       ConfigStore

	close func(ctx context.Context) error
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
