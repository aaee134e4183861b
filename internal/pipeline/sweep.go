package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kinetic/internal/logging"
)

// SweepResult contains the outcome of a workspace sweep.
type SweepResult struct {
	Removed []string
	Errors  []SweepError
}

// SweepError pairs a directory path with its removal error.
type SweepError struct {
	Path  string
	Error error
}

// SweepWorkspaces removes per-job workspaces left behind by interrupted runs.
// It must only be called while no job is executing. Retained workspaces are
// left alone when the executor keeps them on purpose.
func (e *Executor) SweepWorkspaces(ctx context.Context) SweepResult {
	if e.keepWorkspaces {
		return SweepResult{}
	}
	return sweepWorkspaces(ctx, e.workDir, 0, e.logger)
}

// sweepWorkspaces removes job-* directories under workDir whose modification
// time is older than minAge.
func sweepWorkspaces(ctx context.Context, workDir string, minAge time.Duration, logger *slog.Logger) SweepResult {
	result := SweepResult{}

	workDir = strings.TrimSpace(workDir)
	if workDir == "" {
		return result
	}
	entries, err := os.ReadDir(workDir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, SweepError{Path: workDir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-minAge)
	for _, entry := range entries {
		if ctx.Err() != nil {
			return result
		}
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "job-") {
			continue
		}
		dirPath := filepath.Join(workDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, SweepError{Path: dirPath, Error: err})
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.RemoveAll(dirPath); err != nil {
			result.Errors = append(result.Errors, SweepError{Path: dirPath, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale workspace", "workspace_sweep_failed",
				logging.String("path", dirPath),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check work_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"))
			continue
		}
		result.Removed = append(result.Removed, dirPath)
		logger.Info("removed stale workspace",
			logging.String("path", dirPath),
			logging.Duration("age", time.Since(info.ModTime())),
			logging.String(logging.FieldEventType, "workspace_sweep"))
	}
	return result
}
