package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/gofrs/flock"

	"kinetic/internal/api"
	"kinetic/internal/config"
	"kinetic/internal/logging"
	"kinetic/internal/preflight"
	"kinetic/internal/queue"
	"kinetic/internal/store"
	"kinetic/internal/workflow"
)

// Daemon coordinates the background worker and API server and enforces
// single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	queue    queue.Queue
	workflow *workflow.Manager
	api      *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, q queue.Queue, wf *workflow.Manager, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || q == nil || wf == nil {
		return nil, errors.New("daemon requires config, store, queue, and workflow manager")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    st,
		queue:    q,
		workflow: wf,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock, starts the worker, and begins serving the API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another kinetic daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.workflow.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start workflow: %w", err)
	}
	if err := d.api.start(runCtx); err != nil {
		cancel()
		d.workflow.Stop()
		_ = d.lock.Unlock()
		return err
	}

	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("kinetic daemon started",
		logging.String(logging.FieldEventType, "daemon_started"),
		logging.String("lock", d.lockPath),
		logging.String("api", d.api.addr()),
		logging.String("queue_backend", d.cfg.Queue.Backend))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.api.stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.workflow.Stop()
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "daemon_lock_release_failed",
			logging.String("lock", d.lockPath),
			logging.String(logging.FieldErrorHint, "remove the lock file if no daemon is running"),
			logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("kinetic daemon stopped", logging.String(logging.FieldEventType, "daemon_stopped"))
}

// Close stops the daemon and releases the queue and store.
func (d *Daemon) Close() error {
	d.Stop()
	var errs []error
	if err := d.queue.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close queue: %w", err))
	}
	if err := d.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}

// APIAddr returns the address the API listens on, or "" before Start.
func (d *Daemon) APIAddr() string {
	return d.api.addr()
}

// Status returns the current daemon status in its wire form.
func (d *Daemon) Status(ctx context.Context) api.DaemonStatus {
	summary := d.workflow.Status(ctx)
	return api.DaemonStatus{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
		QueueBackend: d.cfg.Queue.Backend,
		Workflow:     api.FromStatusSummary(summary),
		Dependencies: api.FromDependencies(preflight.CheckSystemDeps(ctx, d.cfg)),
		Preflight:    api.FromPreflight(preflight.RunAll(ctx, d.cfg)),
	}
}
