package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"kinetic/internal/services"
	"kinetic/internal/services/command"
)

func TestCompositeBuildsContractArgs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "final", "final_x.mp4")
	var got command.Command
	runner := command.RunnerFunc(func(_ context.Context, cmd command.Command) (command.Result, error) {
		got = cmd
		return command.Result{}, os.WriteFile(out, []byte("mp4"), 0o644)
	})

	path, err := NewService("", runner).Composite(context.Background(), CompositeRequest{
		BaseVideo: "/in/base.mp4",
		Overlay:   "/out/manim_x.mov",
		Audio:     "/in/song.mp3",
		Output:    out,
	})
	if err != nil {
		t.Fatalf("Composite returned error: %v", err)
	}
	if path != out {
		t.Fatalf("path = %q", path)
	}
	want := []string{
		"-y", "-stream_loop", "-1", "-i", "/in/base.mp4",
		"-i", "/out/manim_x.mov", "-i", "/in/song.mp3",
		"-filter_complex", "[1:v]scale=iw:-1[fg];[0:v][fg]overlay=(W-w)/2:(H-h)/2:format=auto[vout]",
		"-map", "[vout]", "-map", "2:a", "-c:v", "libx264", "-c:a", "aac", "-shortest", out,
	}
	if got.Name != "ffmpeg" || !reflect.DeepEqual(got.Args, want) {
		t.Fatalf("unexpected command: %s %v", got.Name, got.Args)
	}
}

func TestCompositeEmptyOutputFails(t *testing.T) {
	out := filepath.Join(t.TempDir(), "final.mp4")
	runner := command.RunnerFunc(func(context.Context, command.Command) (command.Result, error) {
		return command.Result{}, os.WriteFile(out, nil, 0o644)
	})
	_, err := NewService("ffmpeg", runner).Composite(context.Background(), CompositeRequest{
		BaseVideo: "b", Overlay: "o", Audio: "a", Output: out,
	})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestCompositeEngineFailure(t *testing.T) {
	runner := command.RunnerFunc(func(context.Context, command.Command) (command.Result, error) {
		return command.Result{ExitCode: 1, Stderr: "Invalid data found when processing input"}, errors.New("exit status 1")
	})
	_, err := NewService("ffmpeg", runner).Composite(context.Background(), CompositeRequest{
		BaseVideo: "b", Overlay: "o", Audio: "a", Output: filepath.Join(t.TempDir(), "out.mp4"),
	})
	var failure *command.Failure
	if !errors.As(err, &failure) || failure.Stderr != "Invalid data found when processing input" {
		t.Fatalf("expected failure with stderr, got %v", err)
	}
}

func TestCompositeRequiresInputs(t *testing.T) {
	_, err := NewService("ffmpeg", nil).Composite(context.Background(), CompositeRequest{Output: "x"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
