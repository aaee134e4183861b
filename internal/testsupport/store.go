package testsupport

import (
	"context"
	"testing"

	"kinetic/internal/config"
	"kinetic/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewProject creates a project and its first queued job.
func NewProject(t testing.TB, st *store.Store, name, audioPath, videoPath string) (*store.Project, *store.Job) {
	t.Helper()

	project, job, err := st.CreateProjectWithJob(context.Background(), name, audioPath, videoPath)
	if err != nil {
		t.Fatalf("store.CreateProjectWithJob: %v", err)
	}
	return project, job
}
