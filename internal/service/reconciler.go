package service

import (
	"beachvolley/internal/db"
	"beachvolley/internal/entities"
	"beachvolley/internal/utils"
	"context"

	"go.uber.org/zap"
)

type ReservationDeleter interface {
	DeleteReservation(ctx context.Context, id string) (bool, error)
}

// Reconciler removes local reservations that no longer have a matching
// reservation event in the remote calendar.
type Reconciler struct {
	store  ReservationDeleter
	logger *zap.Logger
}

func NewReconciler(store ReservationDeleter, logger *zap.Logger) *Reconciler {
	return &Reconciler{store: store, logger: logger}
}

type ReconcileResult struct {
	Orphans []db.Reservation
	Deleted int
}

// Stale reports whether the local list handed to Reconcile must be re-read.
func (r ReconcileResult) Stale() bool {
	return r.Deleted > 0
}

// FindOrphans returns the local reservations without a remote event of kind
// reservation at the same time label. Malformed records are never orphans.
func FindOrphans(local []db.Reservation, remote []entities.CalendarEvent) []db.Reservation {
	booked := make(map[string]bool, len(remote))
	for _, e := range remote {
		if e.Kind == entities.EventReservation {
			booked[e.Time] = true
		}
	}

	var orphans []db.Reservation
	for _, res := range local {
		if res.ID == "" || res.Time == "" {
			continue
		}
		label, err := utils.NormalizeLabel(res.Time)
		if err != nil {
			continue
		}
		if !booked[label] {
			orphans = append(orphans, res)
		}
	}
	return orphans
}

// Reconcile deletes the orphans of date one at a time. A failed delete is
// logged and the remaining orphans are still processed.
func (r *Reconciler) Reconcile(ctx context.Context, date string, local []db.Reservation, remote []entities.CalendarEvent) ReconcileResult {
	result := ReconcileResult{Orphans: FindOrphans(local, remote)}
	if len(result.Orphans) == 0 {
		return result
	}

	r.logger.Info("Removing orphan reservations", zap.String("date", date), zap.Int("count", len(result.Orphans)))
	for _, orphan := range result.Orphans {
		deleted, err := r.store.DeleteReservation(ctx, orphan.ID)
		if err != nil {
			r.logger.Error("Failed to delete orphan reservation",
				zap.String("id", orphan.ID), zap.String("time", orphan.Time), zap.Error(err))
			continue
		}
		if !deleted {
			r.logger.Warn("Orphan reservation already gone", zap.String("id", orphan.ID), zap.String("time", orphan.Time))
			continue
		}
		result.Deleted++
		r.logger.Info("Orphan reservation deleted",
			zap.String("id", orphan.ID), zap.String("name", orphan.Name), zap.String("time", orphan.Time))
	}
	return result
}
