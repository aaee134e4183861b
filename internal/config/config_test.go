package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"kinetic/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("KINETIC_API_TOKEN", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "kinetic")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.CacheDir != filepath.Join(tempHome, ".cache", "kinetic", "artifacts") {
		t.Fatalf("unexpected cache dir: %q", cfg.Paths.CacheDir)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7488" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Transcription.Model != "small" || cfg.Transcription.Language != "fa" {
		t.Fatalf("unexpected transcription defaults: %+v", cfg.Transcription)
	}
	if cfg.Render.Quality != "h" {
		t.Fatalf("expected default render quality h, got %q", cfg.Render.Quality)
	}
	if cfg.Queue.Backend != config.QueueBackendMemory {
		t.Fatalf("expected memory queue by default, got %q", cfg.Queue.Backend)
	}
	if !cfg.Workflow.RecoverOnStartup {
		t.Fatal("expected startup recovery enabled by default")
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "kinetic.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.WorkDir, cfg.Paths.OutputDir, cfg.Paths.CacheDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "kinetic.toml")

	type payload struct {
		Paths struct {
			WorkDir  string `toml:"work_dir"`
			APIToken string `toml:"api_token"`
		} `toml:"paths"`
		Render struct {
			Quality   string `toml:"quality"`
			SceneName string `toml:"scene_name"`
		} `toml:"render"`
		Queue struct {
			Backend   string `toml:"backend"`
			RedisAddr string `toml:"redis_addr"`
		} `toml:"queue"`
	}
	custom := payload{}
	custom.Paths.WorkDir = filepath.Join(tempDir, "work")
	custom.Paths.APIToken = "  secret  "
	custom.Render.Quality = "L"
	custom.Render.SceneName = "Captions"
	custom.Queue.Backend = "Redis"
	custom.Queue.RedisAddr = "10.0.0.2:6379"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.WorkDir != filepath.Join(tempDir, "work") {
		t.Fatalf("unexpected work dir: %q", cfg.Paths.WorkDir)
	}
	if cfg.Paths.APIToken != "secret" {
		t.Fatalf("expected trimmed api token, got %q", cfg.Paths.APIToken)
	}
	if cfg.Render.Quality != "l" {
		t.Fatalf("expected lower-cased quality, got %q", cfg.Render.Quality)
	}
	if cfg.Render.SceneName != "Captions" {
		t.Fatalf("unexpected scene name: %q", cfg.Render.SceneName)
	}
	if cfg.Queue.Backend != config.QueueBackendRedis || cfg.Queue.RedisAddr != "10.0.0.2:6379" {
		t.Fatalf("unexpected queue config: %+v", cfg.Queue)
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KINETIC_API_TOKEN", "env-token")
	t.Setenv("KINETIC_REDIS_PASSWORD", "env-redis")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.APIToken != "env-token" {
		t.Fatalf("expected api token from env, got %q", cfg.Paths.APIToken)
	}
	if cfg.Queue.RedisPassword != "env-redis" {
		t.Fatalf("expected redis password from env, got %q", cfg.Queue.RedisPassword)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"quality", func(c *config.Config) { c.Render.Quality = "x" }, "render.quality"},
		{"backend", func(c *config.Config) { c.Queue.Backend = "kafka" }, "queue.backend"},
		{"retry", func(c *config.Config) { c.Workflow.ErrorRetryInterval = 0 }, "workflow.error_retry_interval"},
		{"scene", func(c *config.Config) { c.Render.SceneName = "" }, "render.scene_name"},
		{"shared dirs", func(c *config.Config) { c.Paths.WorkDir = c.Paths.CacheDir }, "must differ"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected %q in error, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAPIBaseURL(t *testing.T) {
	cases := map[string]string{
		"127.0.0.1:7488": "http://127.0.0.1:7488",
		":9000":          "http://127.0.0.1:9000",
		"0.0.0.0:8080":   "http://127.0.0.1:8080",
	}
	for bind, want := range cases {
		cfg := config.Default()
		cfg.Paths.APIBind = bind
		if got := cfg.APIBaseURL(); got != want {
			t.Fatalf("APIBaseURL(%q) = %q, want %q", bind, got, want)
		}
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Render.SceneName != "FarsiKinetic" {
		t.Fatalf("unexpected scene name from sample: %q", cfg.Render.SceneName)
	}
}
