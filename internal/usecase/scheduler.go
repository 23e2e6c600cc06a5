package usecase

import (
	"context"
	"log/slog"
	"time"

	"AdverseScreener/internal/ports"
)

// Scheduler wires the interval driver with result index reconciliation.
type Scheduler struct {
	driver     ports.Scheduler
	reconciler ports.IndexReconciler
	logger     *slog.Logger
}

// NewScheduler returns a helper to start/stop the recurring reconcile job.
func NewScheduler(driver ports.Scheduler, reconciler ports.IndexReconciler, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{driver: driver, reconciler: reconciler, logger: logger}
}

// Start registers reconciliation with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.reconciler == nil {
		return nil
	}

	job := func(trigger time.Time) {
		added, err := s.reconciler.Reconcile(ctx)
		if err != nil {
			s.logger.Error("index reconcile failed", "trigger", trigger, "error", err)
			return
		}
		if added > 0 {
			s.logger.Warn("index reconciled", "added", added)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
