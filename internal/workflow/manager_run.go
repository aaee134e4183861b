package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"kinetic/internal/logging"
	"kinetic/internal/queue"
)

// Start recovers interrupted work and begins the worker loop.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	if m.executor == nil {
		m.mu.Unlock()
		return errors.New("workflow executor not configured")
	}
	m.running = true
	m.mu.Unlock()

	m.runPreflightChecks(ctx, m.logger)

	if m.cfg.Workflow.RecoverOnStartup {
		if err := m.recover(ctx); err != nil {
			m.mu.Lock()
			m.running = false
			m.mu.Unlock()
			return err
		}
	}
	if sweeper, ok := m.executor.(workspaceSweeper); ok {
		result := sweeper.SweepWorkspaces(ctx)
		if len(result.Removed) > 0 {
			m.logger.Info("stale workspaces removed",
				logging.String(logging.FieldEventType, "workspace_sweep_summary"),
				logging.Int("removed", len(result.Removed)),
				logging.Int("errors", len(result.Errors)))
		}
	}
	m.refreshQueueDepth(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	go m.runLoop(runCtx)
	m.logger.Info("workflow started",
		logging.String(logging.FieldEventType, "workflow_started"),
		logging.String("queue_backend", m.cfg.Queue.Backend))
	return nil
}

// Stop terminates background processing and waits for the worker to exit.
// A job that is executing when Stop is called stays running in the store and
// is failed by recovery on the next Start.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

func (m *Manager) runLoop(ctx context.Context) {
	defer m.wg.Done()
	logger := m.logger

	for {
		if ctx.Err() != nil {
			return
		}

		id, err := m.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, queue.ErrClosed) {
				logger.Info("queue closed; worker exiting",
					logging.String(logging.FieldEventType, "worker_exited"))
				m.markStopped()
				return
			}
			m.handleDequeueError(ctx, logger, err)
			continue
		}

		m.refreshQueueDepth(ctx)
		m.processJob(ctx, id)
	}
}

// markStopped clears the running state after the worker exits on its own.
func (m *Manager) markStopped() {
	m.mu.Lock()
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (m *Manager) handleDequeueError(ctx context.Context, logger *slog.Logger, err error) {
	m.setLastError(err)
	logger.Error("failed to dequeue job",
		logging.Error(err),
		logging.String(logging.FieldEventType, "queue_dequeue_failed"),
		logging.String(logging.FieldErrorHint, "check queue backend connectivity"),
	)
	select {
	case <-ctx.Done():
	case <-time.After(m.retryInterval):
	}
}
