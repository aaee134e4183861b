package workflow

import (
	"context"
	"fmt"

	"kinetic/internal/logging"
	"kinetic/internal/metrics"
	"kinetic/internal/store"
)

// InterruptedDetail is the error recorded for jobs left running by a crash.
const InterruptedDetail = "interrupted by daemon restart"

// recover fails jobs orphaned in the running state and re-enqueues queued
// jobs that are not already waiting in the queue, oldest first.
func (m *Manager) recover(ctx context.Context) error {
	logger := m.logger.With(logging.String(logging.FieldEventType, "startup_recovery"))

	failed, err := m.store.FailRunning(ctx, InterruptedDetail)
	if err != nil {
		return fmt.Errorf("recover running jobs: %w", err)
	}
	if failed > 0 {
		metrics.JobsRecovered.WithLabelValues("failed").Add(float64(failed))
		logger.Warn("failed jobs interrupted by restart",
			logging.Int64("count", failed),
			logging.String(logging.FieldErrorHint, "create a new job for the affected projects"))
	}

	queued, err := m.store.JobsByStatus(ctx, store.StatusQueued)
	if err != nil {
		return fmt.Errorf("list queued jobs: %w", err)
	}
	pending, err := m.queue.Pending(ctx)
	if err != nil {
		return fmt.Errorf("read pending queue: %w", err)
	}
	waiting := make(map[int64]struct{}, len(pending))
	for _, id := range pending {
		waiting[id] = struct{}{}
	}

	requeued := 0
	for _, job := range queued {
		if _, ok := waiting[job.ID]; ok {
			continue
		}
		if err := m.queue.Enqueue(ctx, job.ID); err != nil {
			return fmt.Errorf("re-enqueue job %d: %w", job.ID, err)
		}
		requeued++
	}
	if requeued > 0 {
		metrics.JobsRecovered.WithLabelValues("requeued").Add(float64(requeued))
		logger.Info("re-enqueued queued jobs", logging.Int("count", requeued))
	}
	return nil
}
