package whisper

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

func TestTranscribeRunsWhisperAndNormalizes(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "transcript")
	var got command.Command
	runner := command.RunnerFunc(func(_ context.Context, cmd command.Command) (command.Result, error) {
		got = cmd
		out := `{"text":"x","segments":[
			{"id":1,"start":2.5,"end":4,"text":"  دوم "},
			{"id":0,"start":0,"end":2.5,"text":" اول"},
			{"id":2,"start":5,"end":5,"text":"empty"}
		]}`
		if err := os.WriteFile(filepath.Join(workDir, "song.json"), []byte(out), 0o644); err != nil {
			t.Fatalf("write output: %v", err)
		}
		return command.Result{}, nil
	})

	svc := NewService(Config{}, runner)
	transcript, err := svc.Transcribe(context.Background(), "/in/song.mp3", workDir)
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}

	wantArgs := []string{"/in/song.mp3", "--model", "small", "--language", "fa", "--task", "transcribe",
		"--fp16", "False", "--output_format", "json", "--output_dir", workDir}
	if got.Name != "whisper" || !reflect.DeepEqual(got.Args, wantArgs) {
		t.Fatalf("unexpected command: %s %v", got.Name, got.Args)
	}
	if got.Dir != workDir {
		t.Fatalf("dir = %q, want %q", got.Dir, workDir)
	}

	want := []Segment{{Start: 0, End: 2.5, Text: "اول"}, {Start: 2.5, End: 4, Text: "دوم"}}
	if !reflect.DeepEqual(transcript.Segments, want) {
		t.Fatalf("segments = %#v", transcript.Segments)
	}
	if transcript.Path != filepath.Join(workDir, "song.json") {
		t.Fatalf("path = %q", transcript.Path)
	}
}

func TestTranscribeEngineFailure(t *testing.T) {
	runner := command.RunnerFunc(func(context.Context, command.Command) (command.Result, error) {
		return command.Result{ExitCode: 1, Stderr: "CUDA out of memory"}, errors.New("exit status 1")
	})
	svc := NewService(Config{Binary: "whisper-custom", Model: "tiny", Language: "en"}, runner)
	_, err := svc.Transcribe(context.Background(), "/in/a.wav", t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	var failure *command.Failure
	if !errors.As(err, &failure) || failure.Engine != "whisper" || failure.ExitCode != 1 {
		t.Fatalf("expected command failure detail, got %v", err)
	}
}

func TestTranscribeMissingOutput(t *testing.T) {
	runner := command.RunnerFunc(func(context.Context, command.Command) (command.Result, error) {
		return command.Result{}, nil
	})
	_, err := NewService(Config{}, runner).Transcribe(context.Background(), "/in/a.wav", t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool for missing output, got %v", err)
	}
}

func TestEncodeDecodeCanonical(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(data) != "[]\n" {
		t.Fatalf("empty encoding = %q", data)
	}
	segments := []Segment{{Start: 1, End: 2, Text: "سلام"}}
	data, err = Encode(segments)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, segments) {
		t.Fatalf("decoded = %#v", decoded)
	}
}
