package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"kinetic/internal/artifactcache"
	"kinetic/internal/config"
	"kinetic/internal/daemon"
	"kinetic/internal/deps"
	"kinetic/internal/logging"
	"kinetic/internal/pipeline"
	"kinetic/internal/queue"
	"kinetic/internal/services/command"
	"kinetic/internal/store"
	"kinetic/internal/workflow"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel  string
	LogFormat string
}

// Run starts the kinetic daemon and blocks until ctx is cancelled or the
// process receives SIGINT/SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(opts.LogFormat); format != "" {
		cfg.Logging.Format = format
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logDependencySnapshot(logger, cfg)

	d, err := build(cfg, logger)
	if err != nil {
		logger.Error("daemon bootstrap failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_bootstrap_failed"),
			logging.String(logging.FieldErrorHint, "check data directory, cache directory, and queue backend"))
		return err
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check the lock file, api bind address, and database access"),
			logging.String(logging.FieldImpact, "jobs will not be processed"))
		return err
	}

	<-signalCtx.Done()
	logger.Info("kinetic daemon shutting down", logging.String(logging.FieldEventType, "daemon_shutdown"))
	return nil
}

// build opens every component the daemon owns. Components opened before a
// failure are closed again.
func build(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	q, err := queue.New(cfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("open queue: %w", err)
	}
	cache, err := artifactcache.New(cfg.Paths.CacheDir, logger)
	if err != nil {
		q.Close()
		st.Close()
		return nil, fmt.Errorf("open artifact cache: %w", err)
	}

	engines := pipeline.NewEngines(cfg, command.ExecRunner{})
	executor := pipeline.NewExecutor(cfg, cache, engines, logger)
	manager := workflow.NewManager(cfg, st, q, executor, logger)

	d, err := daemon.New(cfg, st, q, manager, logger)
	if err != nil {
		q.Close()
		st.Close()
		return nil, err
	}
	return d, nil
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.String("queue_backend", cfg.Queue.Backend),
		logging.String("cache_dir", cfg.Paths.CacheDir),
		logging.Bool("api_token_present", strings.TrimSpace(cfg.Paths.APIToken) != ""),
	}
	for _, status := range deps.CheckBinaries(deps.EngineRequirements(cfg)) {
		key := strings.ToLower(status.Name)
		attrs = append(attrs,
			logging.Bool(key+"_available", status.Available),
			logging.String(key+"_binary", status.Command))
	}
	logger.Info("dependency snapshot", logging.Args(attrs...)...)
}
