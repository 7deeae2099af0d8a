// Package scheduler runs periodic tasks, each on its own OS thread, until
// their context is cancelled.
package scheduler

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Priority is a scheduling request for a task's thread. It is advisory:
// a request the host refuses is logged and the task runs anyway.
type Priority int

const (
	PriorityDefault Priority = iota
	PriorityHigh
	PriorityLow
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	}
	return "default"
}

// Task is a step run every Period. Step blocks only in its own device I/O;
// errors are handled inside the step.
type Task struct {
	Name     string
	Period   time.Duration
	Priority Priority
	Step     func(ctx context.Context)
}

// Run starts every task and blocks until ctx is cancelled and all tasks
// have returned. Each task runs its step immediately, then sleeps Period,
// checking ctx between cycles.
func Run(ctx context.Context, logger *slog.Logger, tasks ...Task) error {
	if logger == nil {
		logger = slog.Default()
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			return runTask(ctx, logger.With("task", task.Name), task)
		})
	}
	return g.Wait()
}

func runTask(ctx context.Context, logger *slog.Logger, task Task) error {
	// Priority applies to the calling thread, so the goroutine keeps it for
	// its whole life. The thread is discarded when the goroutine exits.
	runtime.LockOSThread()
	if task.Priority != PriorityDefault {
		if err := setThreadPriority(task.Priority); err != nil {
			logger.Warn("priority request refused", "priority", task.Priority, "error", err)
		}
	}

	logger.Info("task started", "period", task.Period, "priority", task.Priority)
	defer logger.Info("task stopped")

	for {
		if ctx.Err() != nil {
			return nil
		}
		task.Step(ctx)

		timer := time.NewTimer(task.Period)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
