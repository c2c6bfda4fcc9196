// Package scheduler runs the periodic refresh of every tracked stock.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RefreshFunc schedules a refresh of every tracked stock and returns how many were queued.
type RefreshFunc func(ctx context.Context) (int, error)

// Scheduler wraps a seconds-precision cron instance.
type Scheduler struct {
	cron    *cron.Cron
	refresh RefreshFunc
	ctx     context.Context
	timeout time.Duration
}

// New creates a Scheduler. Jobs run on ctx, bounded by timeout per run.
func New(ctx context.Context, refresh RefreshFunc, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		refresh: refresh,
		ctx:     ctx,
		timeout: timeout,
	}
}

// Register adds the refresh task under spec (six fields, seconds first).
// An empty spec registers nothing.
func (s *Scheduler) Register(spec string) error {
	if spec == "" {
		slog.Info("periodic refresh disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(spec, s.RunNow); err != nil {
		return fmt.Errorf("register refresh task %q: %w", spec, err)
	}
	slog.Info("periodic refresh registered", "spec", spec)
	return nil
}

// Entries reports how many tasks are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started")
}

// Stop stops the scheduler and waits for a running task until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		slog.Warn("scheduler stop timed out", "error", ctx.Err())
	}
	slog.Info("scheduler stopped")
}

// RunNow executes the refresh task immediately.
func (s *Scheduler) RunNow() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	n, err := s.refresh(ctx)
	if err != nil {
		slog.Error("periodic refresh failed", "error", err)
		return
	}
	slog.Info("periodic refresh queued", "stocks", n)
}
