package service

import (
	"beachvolley/internal/db"
	"beachvolley/internal/entities"
	apperrors "beachvolley/internal/errors"
	"beachvolley/internal/repository"
	"beachvolley/internal/utils"
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
)

// BuildAvailability computes one view per grid label. A remote event takes
// precedence over a local reservation, which takes precedence over a local
// blocked-slot entry. An empty grid is replaced by the default one.
func BuildAvailability(grid []string, reservations []db.Reservation, blocks []db.BlockedSlot, events []entities.CalendarEvent) []entities.SlotView {
	if len(grid) == 0 {
		grid = DefaultGrid()
	}

	resByLabel := make(map[string]db.Reservation, len(reservations))
	for _, res := range reservations {
		label, err := utils.NormalizeLabel(res.Time)
		if err != nil {
			continue
		}
		if _, ok := resByLabel[label]; !ok {
			resByLabel[label] = res
		}
	}
	blockByLabel := make(map[string]db.BlockedSlot, len(blocks))
	for _, b := range blocks {
		label, err := utils.NormalizeLabel(b.Time)
		if err != nil {
			continue
		}
		if _, ok := blockByLabel[label]; !ok {
			blockByLabel[label] = b
		}
	}
	eventByLabel := make(map[string]entities.CalendarEvent, len(events))
	for _, e := range events {
		if _, ok := eventByLabel[e.Time]; !ok {
			eventByLabel[e.Time] = e
		}
	}

	views := make([]entities.SlotView, 0, len(grid))
	for _, label := range grid {
		view := entities.SlotView{Time: label, Available: true, Status: entities.SlotFree}
		if res, ok := resByLabel[label]; ok {
			view.Reservation = &res
		}
		block, hasBlock := blockByLabel[label]

		switch event, ok := eventByLabel[label]; {
		case ok:
			view.Event = &event
			view.Status = entities.SlotBooked
			if event.Kind == entities.EventBlock {
				view.Status = entities.SlotBlocked
			}
		case view.Reservation != nil:
			view.Status = entities.SlotBooked
		case hasBlock:
			view.Block = &block
			view.Status = entities.SlotBlocked
			if block.Kind == db.BlockKindOccupied {
				view.Status = entities.SlotBooked
			}
		}
		view.Available = view.Status == entities.SlotFree
		views = append(views, view)
	}
	return views
}

// MergeBlocked returns the occupied labels of a day. Local entries are added
// first; a remote event only contributes a label nobody claimed yet.
func MergeBlocked(reservations []db.Reservation, blocks []db.BlockedSlot, events []entities.CalendarEvent) []entities.BlockedEntry {
	seen := make(map[string]bool)
	var merged []entities.BlockedEntry
	add := func(entry entities.BlockedEntry) {
		if seen[entry.Time] {
			return
		}
		seen[entry.Time] = true
		merged = append(merged, entry)
	}

	for _, res := range reservations {
		label, err := utils.NormalizeLabel(res.Time)
		if err != nil {
			continue
		}
		add(entities.BlockedEntry{
			Time:   label,
			Kind:   db.BlockKindOccupied,
			Reason: "Prenotazione: " + res.Name,
			Source: entities.SourceReservation,
		})
	}
	for _, b := range blocks {
		label, err := utils.NormalizeLabel(b.Time)
		if err != nil {
			continue
		}
		add(entities.BlockedEntry{Time: label, Kind: b.Kind, Reason: b.Reason, Source: entities.SourceBlockedSlot})
	}
	for _, e := range events {
		kind := db.BlockKindOccupied
		if e.Kind == entities.EventBlock {
			kind = db.BlockKindBlocked
		}
		add(entities.BlockedEntry{Time: e.Time, Kind: kind, Reason: e.Title, Source: entities.SourceCalendar, EventID: e.ID})
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Time < merged[j].Time })
	return merged
}

// ErrCalendarDisabled is returned by explicit reconciliation requests when
// no remote calendar is configured.
var ErrCalendarDisabled = errors.New("remote calendar not configured")

type AvailabilityService struct {
	reservations repository.ReservationStore
	blocks       repository.BlockedSlotStore
	config       *ConfigService
	calendar     RemoteCalendar
	reconciler   *Reconciler
	logger       *zap.Logger
}

// NewAvailabilityService wires the day view. calendar may be nil.
func NewAvailabilityService(store *repository.Store, config *ConfigService, calendar RemoteCalendar, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		reservations: store.Reservations,
		blocks:       store.BlockedSlots,
		config:       config,
		calendar:     calendar,
		reconciler:   NewReconciler(store.Reservations, logger),
		logger:       logger,
	}
}

type dayState struct {
	reservations []db.Reservation
	blocks       []db.BlockedSlot
	events       []entities.CalendarEvent
}

// GetAvailability returns the reconciled slot views of date.
func (s *AvailabilityService) GetAvailability(ctx context.Context, date string) ([]entities.SlotView, error) {
	if !utils.ValidDate(date) {
		return nil, apperrors.ErrValidation("Data non valida, formato atteso YYYY-MM-DD")
	}
	day := s.loadDay(ctx, date)

	grid := s.config.Grid(ctx)
	if len(grid) == 0 {
		s.logger.Warn("Empty slot grid, serving default hours", zap.String("date", date))
	}
	return BuildAvailability(grid, day.reservations, day.blocks, day.events), nil
}

// BlockedForDate returns the merged set of occupied labels of date.
func (s *AvailabilityService) BlockedForDate(ctx context.Context, date string) ([]entities.BlockedEntry, error) {
	if !utils.ValidDate(date) {
		return nil, apperrors.ErrValidation("Data non valida, formato atteso YYYY-MM-DD")
	}
	day := s.loadDay(ctx, date)
	return MergeBlocked(day.reservations, day.blocks, day.events), nil
}

// Reconcile runs one reconciliation pass for date. Unlike the read path it
// reports a disabled or unreachable calendar to the caller.
func (s *AvailabilityService) Reconcile(ctx context.Context, date string) (ReconcileResult, error) {
	if !utils.ValidDate(date) {
		return ReconcileResult{}, apperrors.ErrValidation("Data non valida, formato atteso YYYY-MM-DD")
	}
	if s.calendar == nil {
		return ReconcileResult{}, ErrCalendarDisabled
	}
	events, err := s.calendar.ListEvents(ctx, date)
	if err != nil {
		return ReconcileResult{}, err
	}
	local, err := s.reservations.ListReservations(ctx, date)
	if err != nil {
		return ReconcileResult{}, err
	}
	return s.reconciler.Reconcile(ctx, date, local, events), nil
}

// loadDay reads local and remote state of date. Storage and calendar
// failures degrade to empty lists.
func (s *AvailabilityService) loadDay(ctx context.Context, date string) dayState {
	var day dayState
	day.reservations = s.listReservations(ctx, date)

	blocks, err := s.blocks.ListBlockedSlots(ctx, date)
	if err != nil {
		s.logger.Error("Failed to load blocked slots", zap.String("date", date), zap.Error(err))
	}
	day.blocks = blocks

	if s.calendar == nil {
		return day
	}
	events, err := s.calendar.ListEvents(ctx, date)
	if err != nil {
		s.logger.Warn("Remote calendar unavailable, skipping reconciliation", zap.String("date", date), zap.Error(err))
		return day
	}
	day.events = events

	if result := s.reconciler.Reconcile(ctx, date, day.reservations, events); result.Stale() {
		day.reservations = s.listReservations(ctx, date)
	}
	return day
}

func (s *AvailabilityService) listReservations(ctx context.Context, date string) []db.Reservation {
	reservations, err := s.reservations.ListReservations(ctx, date)
	if err != nil {
		s.logger.Error("Failed to load reservations", zap.String("date", date), zap.Error(err))
		return nil
	}
	return reservations
}
