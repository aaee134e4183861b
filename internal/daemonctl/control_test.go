package daemonctl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"kinetic/internal/api"
	"kinetic/internal/testsupport"
)

func TestBuildStatusSnapshotOffline(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	st := testsupport.MustOpenStore(t, cfg)
	audio := testsupport.WriteContent(t, filepath.Join(cfg.Paths.DataDir, "in.mp3"), "a")
	testsupport.NewProject(t, st, "p", audio, audio)

	// Nothing listens on this address.
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	status, reachable, err := BuildStatusSnapshot(context.Background(), api.NewClient(addr, ""), cfg)
	if err != nil {
		t.Fatalf("BuildStatusSnapshot: %v", err)
	}
	if reachable || status.Running {
		t.Fatal("daemon should be reported offline")
	}
	if status.Workflow.JobCounts["queued"] != 1 {
		t.Fatalf("expected offline job counts from database, got %+v", status.Workflow.JobCounts)
	}
	for _, dep := range status.Dependencies {
		if !dep.Available {
			t.Fatalf("stubbed dependency %s reported missing", dep.Name)
		}
	}
}

func TestWaitForReadyTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := WaitForReady(context.Background(), api.NewClient(srv.URL, ""), 300*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestEnsureStartedDetectsRunningDaemon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	state, err := EnsureStarted(context.Background(), api.NewClient(srv.URL, ""), "/nonexistent", LaunchOptions{}, time.Second)
	if err != nil {
		t.Fatalf("EnsureStarted: %v", err)
	}
	if state != StartStateAlreadyRunning {
		t.Fatalf("state = %s", state)
	}
}
