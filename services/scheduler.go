package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// RegistrationScheduler periodically closes registration for tournaments
// whose deadline has passed.
type RegistrationScheduler struct {
	tournaments TournamentService
	interval    time.Duration
	logger      *slog.Logger
	sched       gocron.Scheduler
}

func NewRegistrationScheduler(tournaments TournamentService, interval time.Duration, logger *slog.Logger) *RegistrationScheduler {
	return &RegistrationScheduler{tournaments: tournaments, interval: interval, logger: logger}
}

// Start schedules the sweep, running it once immediately. ctx bounds every
// run; cancel it and call Shutdown to stop.
func (s *RegistrationScheduler) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.runOnce(ctx) }),
		gocron.WithName("close-expired-registrations"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule registration sweep: %w", err)
	}

	sched.Start()
	s.sched = sched
	s.logger.Info("registration scheduler started", slog.Duration("interval", s.interval))
	return nil
}

func (s *RegistrationScheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.tournaments.CloseExpiredRegistrations(ctx); err != nil {
		s.logger.Error("scheduler: registration sweep failed", slog.Any("error", err))
	}
}

func (s *RegistrationScheduler) Shutdown() error {
	if s.sched == nil {
		return nil
	}
	if err := s.sched.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	s.logger.Info("registration scheduler stopped")
	return nil
}
