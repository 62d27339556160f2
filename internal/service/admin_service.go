package service

import (
	"beachvolley/internal/db"
	"beachvolley/internal/entities"
	apperrors "beachvolley/internal/errors"
	"beachvolley/internal/repository"
	"beachvolley/internal/utils"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

type AdminService struct {
	reservations repository.ReservationStore
	blocks       repository.BlockedSlotStore
	loc          *time.Location
	logger       *zap.Logger
	now          func() time.Time
}

func NewAdminService(store *repository.Store, loc *time.Location, logger *zap.Logger) *AdminService {
	return &AdminService{
		reservations: store.Reservations,
		blocks:       store.BlockedSlots,
		loc:          loc,
		logger:       logger,
		now:          time.Now,
	}
}

// slotKind maps the accepted status names, English or Italian, to a block
// kind. An empty kind means the slot is freed.
func slotKind(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "free", "libero":
		return "", true
	case "occupied", "occupato":
		return db.BlockKindOccupied, true
	case "blocked", "bloccato":
		return db.BlockKindBlocked, true
	}
	return "", false
}

// UpdateSlotStatus frees, occupies or blocks a single slot.
func (s *AdminService) UpdateSlotStatus(ctx context.Context, req entities.SlotStatusRequest) error {
	if !utils.ValidDate(req.Date) {
		return apperrors.ErrValidation("Data non valida, formato atteso YYYY-MM-DD")
	}
	label, err := utils.NormalizeLabel(req.Time)
	if err != nil {
		return apperrors.ErrValidation("Orario non valido, formato atteso HH:MM")
	}
	kind, ok := slotKind(req.Kind)
	if !ok {
		return apperrors.ErrValidation(fmt.Sprintf("Stato %q non valido", req.Kind))
	}

	if kind == "" {
		if _, err := s.blocks.DeleteBlockedSlot(ctx, req.Date, label); err != nil {
			return err
		}
		s.logger.Info("Slot freed", zap.String("date", req.Date), zap.String("time", label))
		return nil
	}

	slot := &db.BlockedSlot{
		Date:      req.Date,
		Time:      label,
		Kind:      kind,
		Reason:    strings.TrimSpace(req.Reason),
		UpdatedAt: s.now().UTC(),
	}
	if err := s.blocks.UpsertBlockedSlot(ctx, slot); err != nil {
		return err
	}
	s.logger.Info("Slot status updated",
		zap.String("date", req.Date), zap.String("time", label), zap.String("kind", kind))
	return nil
}

func (s *AdminService) ListBlockedSlots(ctx context.Context) ([]db.BlockedSlot, error) {
	return s.blocks.ListBlockedSlots(ctx, "")
}

// Stats counts reservations overall, today and over the last seven days
// including today, plus the stored blocked slots.
func (s *AdminService) Stats(ctx context.Context) (*entities.StatsResponse, error) {
	all, err := s.reservations.ListReservations(ctx, "")
	if err != nil {
		return nil, err
	}
	today := s.now().In(s.loc)
	week := make([]string, 0, 7)
	for i := 6; i >= 0; i-- {
		week = append(week, today.AddDate(0, 0, -i).Format(utils.DateLayout))
	}

	todayCount, err := s.reservations.CountByDates(ctx, week[6:])
	if err != nil {
		return nil, err
	}
	weekCount, err := s.reservations.CountByDates(ctx, week)
	if err != nil {
		return nil, err
	}
	blocks, err := s.blocks.ListBlockedSlots(ctx, "")
	if err != nil {
		return nil, err
	}

	return &entities.StatsResponse{
		Total:        len(all),
		Today:        todayCount,
		ThisWeek:     weekCount,
		BlockedSlots: len(blocks),
	}, nil
}
