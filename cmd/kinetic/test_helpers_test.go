package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"kinetic/internal/api"
	"kinetic/internal/artifactcache"
	"kinetic/internal/config"
	"kinetic/internal/logging"
	"kinetic/internal/pipeline"
	"kinetic/internal/queue"
	"kinetic/internal/store"
	"kinetic/internal/testsupport"
	"kinetic/internal/workflow"
)

type cliTestEnv struct {
	cfg        *config.Config
	store      *store.Store
	manager    *workflow.Manager
	cache      *artifactcache.Store
	fake       *testsupport.FakeEngines
	server     *httptest.Server
	configPath string
}

// setupCLITestEnv serves the real API router over httptest. The worker is
// only started by tests that call env.startWorker.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithAPIToken("cli-token"), testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	st := testsupport.MustOpenStore(t, cfg)
	cache, err := artifactcache.New(cfg.Paths.CacheDir, logging.NewNop())
	if err != nil {
		t.Fatalf("artifactcache.New: %v", err)
	}
	fake := testsupport.NewFakeEngines()
	exec := pipeline.NewExecutor(cfg, cache, pipeline.NewEngines(cfg, fake), logging.NewNop())
	mgr := workflow.NewManager(cfg, st, queue.NewMemoryQueue(), exec, logging.NewNop())
	t.Cleanup(mgr.Stop)

	srv := httptest.NewServer(api.NewHandler(api.Options{
		Store:    st,
		Workflow: mgr,
		Token:    cfg.Paths.APIToken,
		Logger:   logging.NewNop(),
	}))
	t.Cleanup(srv.Close)

	return &cliTestEnv{
		cfg:        cfg,
		store:      st,
		manager:    mgr,
		cache:      cache,
		fake:       fake,
		server:     srv,
		configPath: configPath,
	}
}

func (env *cliTestEnv) startWorker(t *testing.T) {
	t.Helper()
	if err := env.manager.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
}

func (env *cliTestEnv) inputs(t *testing.T, name string) (string, string) {
	t.Helper()
	return testsupport.InputPair(t, env.cfg, name)
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, args, env.server.URL, env.configPath)
}

func runCLI(t *testing.T, args []string, apiURL, configPath string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if apiURL != "" {
		flags = append(flags, "--api", apiURL)
	}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
