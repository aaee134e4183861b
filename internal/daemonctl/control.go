package daemonctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"kinetic/internal/api"
	"kinetic/internal/config"
	"kinetic/internal/preflight"
	"kinetic/internal/store"
)

// LaunchOptions controls daemon process launch behavior.
type LaunchOptions struct {
	ConfigPath string
	LogLevel   string
}

// StartState describes the outcome of EnsureStarted.
type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

// ErrDaemonNotRunning indicates the daemon API is unreachable.
var ErrDaemonNotRunning = errors.New("daemon not running")

// Launch starts a detached "daemon run" process of executablePath.
func Launch(executablePath string, opts LaunchOptions) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}

	args := []string{"daemon", "run"}
	if cfg := strings.TrimSpace(opts.ConfigPath); cfg != "" {
		args = append(args, "--config", cfg)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		args = append(args, "--log-level", level)
	}

	proc := exec.Command(executablePath, args...)
	proc.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitForReady polls the health endpoint until it answers or timeout elapses.
func WaitForReady(ctx context.Context, client *api.Client, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		err := client.Health(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for daemon")
	}
	return fmt.Errorf("daemon failed to start: %w", lastErr)
}

// EnsureStarted launches the daemon unless its API already answers.
func EnsureStarted(ctx context.Context, client *api.Client, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (StartState, error) {
	if err := client.Health(ctx); err == nil {
		return StartStateAlreadyRunning, nil
	}
	if err := Launch(executablePath, opts); err != nil {
		return "", err
	}
	if err := WaitForReady(ctx, client, waitTimeout); err != nil {
		return "", err
	}
	return StartStateStarted, nil
}

// Stop asks the daemon process to terminate and waits for its API to go away.
// It returns the signalled PID.
func Stop(ctx context.Context, client *api.Client, gracePeriod time.Duration) (int, error) {
	status, err := client.Status(ctx)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			return 0, err
		}
		return 0, ErrDaemonNotRunning
	}
	if status.PID <= 0 {
		return 0, fmt.Errorf("daemon did not report a pid")
	}
	if status.PID == os.Getpid() {
		return 0, fmt.Errorf("refusing to signal current process (pid %d)", status.PID)
	}
	proc, err := os.FindProcess(status.PID)
	if err != nil {
		return 0, fmt.Errorf("locate daemon process %d: %w", status.PID, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return 0, fmt.Errorf("signal daemon process %d: %w", status.PID, err)
	}

	deadline := time.Now().Add(gracePeriod)
	for time.Now().Before(deadline) {
		if err := client.Health(ctx); err != nil {
			return status.PID, nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return status.PID, fmt.Errorf("daemon %d did not stop within %s", status.PID, gracePeriod)
}

// BuildStatusSnapshot returns the daemon's own status when its API answers,
// otherwise an offline view assembled from the database and local checks.
// The second return value reports whether the daemon was reachable.
func BuildStatusSnapshot(ctx context.Context, client *api.Client, cfg *config.Config) (*api.DaemonStatus, bool, error) {
	if cfg == nil {
		return nil, false, errors.New("configuration not available")
	}
	status, err := client.Status(ctx)
	if err == nil {
		return status, true, nil
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return nil, false, err
	}

	offline := &api.DaemonStatus{
		DatabasePath: cfg.DatabasePath(),
		LockFilePath: cfg.LockPath(),
		QueueBackend: cfg.Queue.Backend,
		Workflow:     api.WorkflowStatus{JobCounts: map[string]int{}},
		Dependencies: api.FromDependencies(preflight.CheckSystemDeps(ctx, cfg)),
		Preflight:    api.FromPreflight(preflight.RunAll(ctx, cfg)),
	}
	if _, statErr := os.Stat(cfg.DatabasePath()); statErr == nil {
		queryCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if st, openErr := store.OpenPath(cfg.DatabasePath()); openErr == nil {
			counts, countErr := st.CountByStatus(queryCtx)
			_ = st.Close()
			if countErr == nil {
				for status, count := range counts {
					offline.Workflow.JobCounts[string(status)] = count
				}
			}
		}
	}
	return offline, false, nil
}
