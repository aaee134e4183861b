package aubio

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"

	"kinetic/internal/services"
	"kinetic/internal/services/command"
)

func TestDetectBeatsWritesCanonicalFile(t *testing.T) {
	workDir := t.TempDir()
	var got command.Command
	runner := command.RunnerFunc(func(_ context.Context, cmd command.Command) (command.Result, error) {
		got = cmd
		return command.Result{Stdout: "0.960000\n0.470000\n\n1.440000\n"}, nil
	})

	beats, err := NewService("", runner).DetectBeats(context.Background(), "/in/track.wav", workDir)
	if err != nil {
		t.Fatalf("DetectBeats returned error: %v", err)
	}
	if got.Name != "aubio" || !reflect.DeepEqual(got.Args, []string{"beat", "/in/track.wav"}) {
		t.Fatalf("unexpected command: %s %v", got.Name, got.Args)
	}
	want := []float64{0.47, 0.96, 1.44}
	if !reflect.DeepEqual(beats.Times, want) {
		t.Fatalf("times = %v", beats.Times)
	}

	data, err := os.ReadFile(beats.Path)
	if err != nil {
		t.Fatalf("read beats file: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, want) {
		t.Fatalf("decoded = %v", decoded)
	}
}

func TestDetectBeatsRejectsGarbage(t *testing.T) {
	runner := command.RunnerFunc(func(context.Context, command.Command) (command.Result, error) {
		return command.Result{Stdout: "0.5\nnot-a-number\n"}, nil
	})
	_, err := NewService("aubio", runner).DetectBeats(context.Background(), "/in/a.wav", t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestDetectBeatsEngineFailure(t *testing.T) {
	runner := command.RunnerFunc(func(context.Context, command.Command) (command.Result, error) {
		return command.Result{ExitCode: 2}, errors.New("exit status 2")
	})
	_, err := NewService("aubio", runner).DetectBeats(context.Background(), "/in/a.wav", t.TempDir())
	var failure *command.Failure
	if !errors.As(err, &failure) || failure.ExitCode != 2 {
		t.Fatalf("expected command failure, got %v", err)
	}
}

func TestParseTimesEmpty(t *testing.T) {
	times, err := ParseTimes("")
	if err != nil {
		t.Fatalf("ParseTimes: %v", err)
	}
	if len(times) != 0 {
		t.Fatalf("expected no beats, got %v", times)
	}
	data, _ := Encode(times)
	if string(data) != "[]\n" {
		t.Fatalf("encoded empty = %q", data)
	}
}
