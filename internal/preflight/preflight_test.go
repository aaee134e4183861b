package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"kinetic/internal/config"
	"kinetic/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFileReadable(t *testing.T) {
	dir := t.TempDir()
	scene := testsupport.WriteContent(t, filepath.Join(dir, "motion.py"), "class FarsiKinetic: pass\n")

	if r := CheckFileReadable("scene", scene); !r.Passed {
		t.Fatalf("expected pass, got %s", r.Detail)
	}
	if r := CheckFileReadable("scene", dir); r.Passed {
		t.Fatal("expected failure for directory")
	}
	if r := CheckFileReadable("scene", ""); r.Passed || r.Detail != "not configured" {
		t.Fatalf("unexpected result for empty path: %+v", r)
	}
}

func TestCheckRedis(t *testing.T) {
	srv := miniredis.RunT(t)

	if r := CheckRedis(context.Background(), srv.Addr(), "", 0); !r.Passed {
		t.Fatalf("expected pass, got %s", r.Detail)
	}
	if r := CheckRedis(context.Background(), "", "", 0); r.Passed {
		t.Fatal("expected failure for missing address")
	}
	addr := srv.Addr()
	srv.Close()
	if r := CheckRedis(context.Background(), addr, "", 0); r.Passed {
		t.Fatal("expected failure once the server is gone")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ReadyInstall(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	testsupport.WriteContent(t, cfg.Render.SceneFile, "scene\n")

	results := RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_IncludesRedisWhenSelected(t *testing.T) {
	srv := miniredis.RunT(t)
	cfg := testsupport.NewConfig(t)
	cfg.Queue.Backend = config.QueueBackendRedis
	cfg.Queue.RedisAddr = srv.Addr()

	results := RunAll(context.Background(), cfg)
	found := false
	for _, r := range results {
		if r.Name == "Redis queue" {
			found = true
			if !r.Passed {
				t.Errorf("redis check failed: %s", r.Detail)
			}
		}
	}
	if !found {
		t.Fatal("expected redis check in results")
	}
	if failed := Failed(results); len(failed) == 0 {
		t.Fatal("directories were not created, expected failures")
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	statuses := CheckSystemDeps(context.Background(), cfg)
	if len(statuses) != 4 {
		t.Fatalf("expected 4 engine statuses, got %d", len(statuses))
	}
	for _, s := range statuses {
		if !s.Available {
			t.Fatalf("stubbed engine %s reported missing: %s", s.Name, s.Detail)
		}
	}
}
