package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"kinetic/internal/config"
	"kinetic/internal/logging"
	"kinetic/internal/pipeline"
	"kinetic/internal/queue"
	"kinetic/internal/store"
)

// Executor runs the pipeline for a single job.
type Executor interface {
	Run(ctx context.Context, req pipeline.Request, reporter pipeline.Reporter) (pipeline.Result, error)
}

// workspaceSweeper is implemented by executors that leave per-job scratch
// directories behind when a run is interrupted.
type workspaceSweeper interface {
	SweepWorkspaces(ctx context.Context) pipeline.SweepResult
}

// Manager coordinates job creation, queueing, and the worker loop.
type Manager struct {
	cfg           *config.Config
	store         *store.Store
	queue         queue.Queue
	executor      Executor
	logger        *slog.Logger
	retryInterval time.Duration

	mu        sync.RWMutex
	running   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	lastErr   error
	current   *store.Job
	lastJob   *store.Job
	processed int
}

// NewManager constructs a new workflow manager.
func NewManager(cfg *config.Config, st *store.Store, q queue.Queue, executor Executor, logger *slog.Logger) *Manager {
	retry := time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second
	if retry <= 0 {
		retry = time.Second
	}
	return &Manager{
		cfg:           cfg,
		store:         st,
		queue:         q,
		executor:      executor,
		logger:        logging.NewComponentLogger(logger, "workflow"),
		retryInterval: retry,
	}
}

// Store returns the record store the manager writes to.
func (m *Manager) Store() *store.Store {
	return m.store
}
