package manim

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"kinetic/internal/services"
	"kinetic/internal/services/command"
)

func TestRenderReturnsNewestOutput(t *testing.T) {
	workDir := t.TempDir()
	var got command.Command
	runner := command.RunnerFunc(func(_ context.Context, cmd command.Command) (command.Result, error) {
		got = cmd
		older := filepath.Join(workDir, "media", "videos", "motion", "480p15", "FarsiKinetic.mov")
		newer := filepath.Join(workDir, "media", "videos", "motion", "1080p60", "FarsiKinetic.mov")
		for _, path := range []string{older, newer} {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			if err := os.WriteFile(path, []byte("frames"), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
		}
		past := time.Now().Add(-time.Hour)
		if err := os.Chtimes(older, past, past); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
		return command.Result{}, nil
	})

	svc := NewService(Config{SceneFile: "/scenes/motion.py", Quality: "l"}, runner)
	out, err := svc.Render(context.Background(), RenderRequest{
		WorkDir:      workDir,
		SegmentsPath: "/w/segments.json",
		BeatsPath:    "/w/beats.json",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	want := filepath.Join(workDir, "media", "videos", "motion", "1080p60", "FarsiKinetic.mov")
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}

	wantArgs := []string{"-ql", "-t", "--media_dir", filepath.Join(workDir, "media"), "/scenes/motion.py", "FarsiKinetic"}
	if got.Name != "manim" || !reflect.DeepEqual(got.Args, wantArgs) {
		t.Fatalf("unexpected command: %s %v", got.Name, got.Args)
	}
	if got.Dir != workDir {
		t.Fatalf("dir = %q", got.Dir)
	}
	wantEnv := []string{"KINETIC_SEGMENTS=/w/segments.json", "KINETIC_BEATS=/w/beats.json"}
	if !reflect.DeepEqual(got.Env, wantEnv) {
		t.Fatalf("env = %v", got.Env)
	}
}

func TestRenderMissingOutputIsStageFailure(t *testing.T) {
	runner := command.RunnerFunc(func(context.Context, command.Command) (command.Result, error) {
		return command.Result{}, nil
	})
	svc := NewService(Config{SceneFile: "/scenes/motion.py"}, runner)
	_, err := svc.Render(context.Background(), RenderRequest{WorkDir: t.TempDir()})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestNewServiceDefaultsInvalidQuality(t *testing.T) {
	svc := NewService(Config{SceneFile: "/scenes/motion.py", Quality: "z"}, nil)
	if svc.cfg.Quality != DefaultQuality {
		t.Fatalf("quality = %q, want %q", svc.cfg.Quality, DefaultQuality)
	}
	for _, q := range []string{"l", "m", "h", "p", "k"} {
		if !ValidQuality(q) {
			t.Fatalf("expected %q valid", q)
		}
	}
}

func TestRenderRequiresSceneFile(t *testing.T) {
	_, err := NewService(Config{}, nil).Render(context.Background(), RenderRequest{WorkDir: t.TempDir()})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
