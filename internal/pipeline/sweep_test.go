package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kinetic/internal/logging"
)

func TestSweepWorkspacesRemovesOnlyJobDirs(t *testing.T) {
	workDir := t.TempDir()
	for _, name := range []string{"job-1-abc", "job-2-def", "keep-me"} {
		if err := os.MkdirAll(filepath.Join(workDir, name, "render"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(workDir, "job-notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	result := sweepWorkspaces(context.Background(), workDir, 0, logging.NewNop())
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Removed) != 2 {
		t.Fatalf("expected 2 removed workspaces, got %v", result.Removed)
	}
	for _, name := range []string{"keep-me", "job-notes.txt"} {
		if _, err := os.Stat(filepath.Join(workDir, name)); err != nil {
			t.Fatalf("%s should remain: %v", name, err)
		}
	}
}

func TestSweepWorkspacesHonoursMinAge(t *testing.T) {
	workDir := t.TempDir()
	old := filepath.Join(workDir, "job-1-old")
	fresh := filepath.Join(workDir, "job-2-new")
	for _, dir := range []string{old, fresh} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	result := sweepWorkspaces(context.Background(), workDir, time.Hour, logging.NewNop())
	if len(result.Removed) != 1 || result.Removed[0] != old {
		t.Fatalf("expected only the old workspace removed, got %v", result.Removed)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh workspace should remain: %v", err)
	}
}

func TestSweepWorkspacesMissingDir(t *testing.T) {
	result := sweepWorkspaces(context.Background(), filepath.Join(t.TempDir(), "absent"), 0, logging.NewNop())
	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("missing work dir should be a no-op: %+v", result)
	}
}
