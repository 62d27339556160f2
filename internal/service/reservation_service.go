package service

import (
	"beachvolley/internal/db"
	"beachvolley/internal/entities"
	apperrors "beachvolley/internal/errors"
	"beachvolley/internal/repository"
	"beachvolley/internal/utils"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

// BookingNotifier is told about bookings once they are stored. Delivery is
// best effort and never fails the booking.
type BookingNotifier interface {
	NotifyBooking(res db.Reservation)
	NotifyCancellation(res db.Reservation)
}

type ReservationService struct {
	reservations repository.ReservationStore
	blocks       repository.BlockedSlotStore
	config       *ConfigService
	calendar     RemoteCalendar
	notifier     BookingNotifier
	loc          *time.Location
	logger       *zap.Logger
	now          func() time.Time
}

// NewReservationService wires the booking flow. calendar and notifier may
// be nil.
func NewReservationService(store *repository.Store, config *ConfigService, calendar RemoteCalendar, notifier BookingNotifier, loc *time.Location, logger *zap.Logger) *ReservationService {
	return &ReservationService{
		reservations: store.Reservations,
		blocks:       store.BlockedSlots,
		config:       config,
		calendar:     calendar,
		notifier:     notifier,
		loc:          loc,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *ReservationService) ListReservations(ctx context.Context, date string) ([]db.Reservation, error) {
	if date != "" && !utils.ValidDate(date) {
		return nil, apperrors.ErrValidation("Data non valida, formato atteso YYYY-MM-DD")
	}
	return s.reservations.ListReservations(ctx, date)
}

func validateRequest(req *entities.ReservationRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Date = strings.TrimSpace(req.Date)
	req.Note = strings.TrimSpace(req.Note)
	if req.Name == "" || req.Phone == "" || req.Date == "" || strings.TrimSpace(req.Time) == "" || req.Players == 0 {
		return apperrors.ErrValidation("Tutti i campi sono obbligatori")
	}
	if req.Players < 0 {
		return apperrors.ErrValidation("Numero giocatori non valido")
	}
	if !utils.ValidDate(req.Date) {
		return apperrors.ErrValidation("Data non valida, formato atteso YYYY-MM-DD")
	}
	label, err := utils.NormalizeLabel(req.Time)
	if err != nil {
		return apperrors.ErrValidation("Orario non valido, formato atteso HH:MM")
	}
	req.Time = label
	return nil
}

// checkSlotPolicy rejects labels outside the configured grid and parties
// larger than max_giocatori.
func (s *ReservationService) checkSlotPolicy(ctx context.Context, req *entities.ReservationRequest) error {
	grid := s.config.Grid(ctx)
	if len(grid) == 0 {
		grid = DefaultGrid()
	}
	if !slices.Contains(grid, req.Time) {
		return apperrors.ErrValidation("Orario fuori dagli orari di apertura")
	}
	if limit := s.config.intValue(ctx, KeyMaxPlayers); req.Players > limit {
		return apperrors.ErrValidation(fmt.Sprintf("Numero massimo di giocatori: %d", limit))
	}
	return nil
}

// CreateReservation stores a confirmed booking when the slot is free and
// mirrors it to the remote calendar. The check and the insert are not atomic.
func (s *ReservationService) CreateReservation(ctx context.Context, req *entities.ReservationRequest) (*db.Reservation, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.checkSlotPolicy(ctx, req); err != nil {
		return nil, err
	}

	booked, err := s.reservations.CountConfirmed(ctx, req.Date, req.Time)
	if err != nil {
		return nil, fmt.Errorf("failed to check reservations: %w", err)
	}
	blocked, err := s.blocks.CountBlocked(ctx, req.Date, req.Time)
	if err != nil {
		return nil, fmt.Errorf("failed to check blocked slots: %w", err)
	}
	if booked+blocked > 0 {
		return nil, apperrors.ErrConflict("Slot non disponibile")
	}

	res := &db.Reservation{
		Name:      req.Name,
		Phone:     req.Phone,
		Date:      req.Date,
		Time:      req.Time,
		Players:   req.Players,
		Note:      req.Note,
		Status:    db.StatusConfirmed,
		CreatedAt: s.now().UTC(),
	}
	if err := s.reservations.CreateReservation(ctx, res); err != nil {
		s.logger.Error("Error creating reservation in repository", zap.Error(err))
		return nil, err
	}
	s.logger.Info("Reservation created",
		zap.String("id", res.ID), zap.String("date", res.Date), zap.String("time", res.Time))

	s.mirror(ctx, res)
	if s.notifier != nil {
		s.notifier.NotifyBooking(*res)
	}
	return res, nil
}

func (s *ReservationService) mirror(ctx context.Context, res *db.Reservation) {
	if s.calendar == nil {
		return
	}
	eventID, err := s.calendar.CreateReservationEvent(ctx, *res)
	if err != nil {
		s.logger.Error("Failed to mirror reservation to calendar", zap.String("id", res.ID), zap.Error(err))
		return
	}
	if err := s.reservations.SetExternalEventID(ctx, res.ID, eventID); err != nil {
		s.logger.Error("Failed to store calendar event id",
			zap.String("id", res.ID), zap.String("eventId", eventID), zap.Error(err))
		return
	}
	res.ExternalEventID = eventID
}

// CancelReservation deletes a booking and its remote mirror.
func (s *ReservationService) CancelReservation(ctx context.Context, id string) error {
	res, err := s.reservations.GetReservation(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrNotFound("Prenotazione non trovata")
	}
	if err != nil {
		return fmt.Errorf("failed to load reservation %s: %w", id, err)
	}

	if res.ExternalEventID != "" && s.calendar != nil {
		if err := s.calendar.DeleteEvent(ctx, res.ExternalEventID); err != nil {
			s.logger.Warn("Failed to delete calendar event",
				zap.String("id", id), zap.String("eventId", res.ExternalEventID), zap.Error(err))
		}
	}

	deleted, err := s.reservations.DeleteReservation(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation %s: %w", id, err)
	}
	if !deleted {
		return apperrors.ErrNotFound("Prenotazione non trovata")
	}
	s.logger.Info("Reservation cancelled", zap.String("id", id), zap.String("date", res.Date), zap.String("time", res.Time))

	if s.notifier != nil {
		s.notifier.NotifyCancellation(*res)
	}
	return nil
}

// ExportICS renders every stored reservation as an iCalendar feed.
func (s *ReservationService) ExportICS(ctx context.Context) (string, error) {
	reservations, err := s.reservations.ListReservations(ctx, "")
	if err != nil {
		return "", err
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//Beach Volley Preturo//Prenotazioni//IT")
	cal.SetXWRCalName("Beach Volley Preturo")
	cal.SetXWRTimezone(s.loc.String())

	stamp := s.now().UTC()
	for _, res := range reservations {
		start, err := utils.SlotStart(res.Date, res.Time, s.loc)
		if err != nil {
			s.logger.Warn("Skipping reservation with invalid slot",
				zap.String("id", res.ID), zap.String("date", res.Date), zap.String("time", res.Time), zap.Error(err))
			continue
		}

		event := cal.AddEvent(res.ID + "@beachvolley")
		event.SetDtStampTime(stamp)
		event.SetCreatedTime(res.CreatedAt)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(time.Duration(SlotMinutes) * time.Minute))
		event.SetSummary(fmt.Sprintf("Beach Volley - %s", res.Name))
		event.SetDescription(fmt.Sprintf("Telefono: %s\nGiocatori: %d\nNote: %s", res.Phone, res.Players, res.Note))
	}
	return cal.Serialize(), nil
}
