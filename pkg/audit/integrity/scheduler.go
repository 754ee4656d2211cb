package integrity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the integrity sweep on a cron schedule.
type Scheduler struct {
	checker  *Checker
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler that sweeps the given checker on the
// given cron expression (standard 5-field syntax, e.g. "0 * * * *" for
// hourly).
func NewScheduler(checker *Checker, schedule string) *Scheduler {
	return &Scheduler{
		checker:  checker,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "audit.integrity.scheduler"),
	}
}

// Start begins scheduled sweeping. An empty schedule disables the
// scheduler. The scheduler stops itself when the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("integrity sweep schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid integrity sweep schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.checker.Scan(ctx); err != nil {
			s.logger.Error("scheduled integrity sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule integrity sweep: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("integrity sweep scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("integrity sweep scheduler stopped")
}
