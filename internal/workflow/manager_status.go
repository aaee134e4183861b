package workflow

import (
	"context"

	"kinetic/internal/logging"
	"kinetic/internal/metrics"
	"kinetic/internal/pipeline"
	"kinetic/internal/stage"
	"kinetic/internal/store"
)

// StatusSummary represents lightweight workflow diagnostics.
type StatusSummary struct {
	Running     bool
	QueueDepth  int
	Pending     []int64
	CurrentJob  *store.Job
	LastJob     *store.Job
	LastError   string
	Processed   int
	JobCounts   map[store.Status]int
	StageHealth []stage.Health
}

type engineProvider interface {
	Engines() pipeline.Engines
}

// Status returns the latest workflow information.
func (m *Manager) Status(ctx context.Context) StatusSummary {
	m.mu.RLock()
	summary := StatusSummary{
		Running:    m.running,
		CurrentJob: copyJob(m.current),
		LastJob:    copyJob(m.lastJob),
		Processed:  m.processed,
	}
	if m.lastErr != nil {
		summary.LastError = m.lastErr.Error()
	}
	m.mu.RUnlock()

	pending, err := m.queue.Pending(ctx)
	if err != nil {
		m.logger.Warn("failed to read pending queue", logging.Error(err))
	}
	summary.Pending = pending
	summary.QueueDepth = len(pending)

	counts, err := m.store.CountByStatus(ctx)
	if err != nil {
		m.logger.Warn("failed to read job counts", logging.Error(err))
	}
	summary.JobCounts = counts

	if provider, ok := m.executor.(engineProvider); ok {
		summary.StageHealth = stage.CollectHealth(ctx, provider.Engines().HealthCheckers()...)
	}
	return summary
}

func (m *Manager) refreshQueueDepth(ctx context.Context) {
	depth, err := m.queue.Len(ctx)
	if err != nil {
		return
	}
	metrics.QueueDepth.Set(float64(depth))
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) setCurrent(job *store.Job) {
	m.mu.Lock()
	m.current = copyJob(job)
	m.mu.Unlock()
}

func (m *Manager) recordFinished(job *store.Job) {
	m.mu.Lock()
	m.lastJob = copyJob(job)
	m.processed++
	m.mu.Unlock()
}

func copyJob(job *store.Job) *store.Job {
	if job == nil {
		return nil
	}
	copy := *job
	return &copy
}
