package service

import (
	"beachvolley/internal/repository"
	"beachvolley/internal/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const reconcileJobTimeout = 2 * time.Minute

// JobService reconciles upcoming days in the background so orphans are
// removed even when nobody reads availability.
type JobService struct {
	availability *AvailabilityService
	reservations repository.ReservationStore
	days         int
	loc          *time.Location
	logger       *zap.Logger
	now          func() time.Time
	cron         *cron.Cron
}

func NewJobService(availability *AvailabilityService, reservations repository.ReservationStore, days int, loc *time.Location, logger *zap.Logger) *JobService {
	return &JobService{
		availability: availability,
		reservations: reservations,
		days:         days,
		loc:          loc,
		logger:       logger,
		now:          time.Now,
	}
}

// ReconcileUpcoming reconciles every date holding reservations from today
// through the next s.days days and returns the number of orphans removed.
func (s *JobService) ReconcileUpcoming(ctx context.Context) (int, error) {
	today := s.now().In(s.loc)
	from := today.Format(utils.DateLayout)
	until := today.AddDate(0, 0, s.days).Format(utils.DateLayout)

	dates, err := s.reservations.UpcomingDates(ctx, from)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to list upcoming dates: %w", err)
	}

	deleted := 0
	for _, date := range dates {
		if date > until {
			break
		}
		result, err := s.availability.Reconcile(ctx, date)
		if errors.Is(err, ErrCalendarDisabled) {
			return deleted, err
		}
		if err != nil {
			s.logger.Warn("Cron job: reconciliation skipped", zap.String("date", date), zap.Error(err))
			continue
		}
		deleted += result.Deleted
	}
	return deleted, nil
}

// Start schedules ReconcileUpcoming on schedule, a cron spec or descriptor
// such as "@every 15m".
func (s *JobService) Start(schedule string) error {
	c := cron.New(cron.WithLocation(s.loc))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileJobTimeout)
		defer cancel()

		deleted, err := s.ReconcileUpcoming(ctx)
		if err != nil {
			s.logger.Error("Cron job: reconciliation failed", zap.Error(err))
			return
		}
		s.logger.Info("Cron job: reconciliation completed", zap.Int("deleted", deleted))
	})
	if err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}
	s.cron = c
	c.Start()
	s.logger.Info("Reconciliation job scheduled", zap.String("schedule", schedule), zap.Int("days", s.days))
	return nil
}

// Stop halts the scheduler; the returned context is done once a running
// job finishes.
func (s *JobService) Stop() context.Context {
	if s.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return s.cron.Stop()
}
