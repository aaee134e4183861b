package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"kinetic/internal/services/command"
)

// FakeEngines is a command.Runner that imitates whisper, aubio, manim, and
// ffmpeg by writing the files each engine would produce. It records every
// invocation and can be told to fail a given engine.
type FakeEngines struct {
	// Before, when set, runs at the start of every invocation.
	Before func(ctx context.Context, cmd command.Command)

	mu        sync.Mutex
	calls     []command.Command
	failures  map[string]failure
	active    int
	maxActive int
}

type failure struct {
	stderr string
	// remaining counts failing invocations left; negative fails forever.
	remaining int
}

// NewFakeEngines returns a runner with no configured failures.
func NewFakeEngines() *FakeEngines {
	return &FakeEngines{failures: make(map[string]failure)}
}

// Fail makes every later invocation of engine exit 1 with stderr.
func (f *FakeEngines) Fail(engine, stderr string) {
	f.mu.Lock()
	f.failures[engine] = failure{stderr: stderr, remaining: -1}
	f.mu.Unlock()
}

// FailNext makes only the next invocation of engine exit 1 with stderr.
func (f *FakeEngines) FailNext(engine, stderr string) {
	f.mu.Lock()
	f.failures[engine] = failure{stderr: stderr, remaining: 1}
	f.mu.Unlock()
}

// Count reports how many times engine was invoked.
func (f *FakeEngines) Count(engine string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if engineName(c) == engine {
			n++
		}
	}
	return n
}

// Calls returns a copy of every recorded invocation.
func (f *FakeEngines) Calls() []command.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]command.Command(nil), f.calls...)
}

// MaxActive reports the highest number of overlapping invocations observed.
func (f *FakeEngines) MaxActive() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxActive
}

// Run implements command.Runner.
func (f *FakeEngines) Run(ctx context.Context, cmd command.Command) (command.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	fail := f.takeFailure(engineName(cmd))
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if f.Before != nil {
		f.Before(ctx, cmd)
	}
	if err := ctx.Err(); err != nil {
		return command.Result{ExitCode: -1}, err
	}
	if fail != nil {
		return command.Result{ExitCode: 1, Stderr: fail.stderr}, errors.New("exit status 1")
	}

	switch engineName(cmd) {
	case "whisper":
		return f.whisper(cmd)
	case "aubio":
		return command.Result{Stdout: "1.5\n0.5\n\n1.0\n"}, nil
	case "manim":
		return f.manim(cmd)
	case "ffmpeg":
		return f.ffmpeg(cmd)
	}
	return command.Result{ExitCode: 127}, fmt.Errorf("unknown engine %q", cmd.Name)
}

// takeFailure must be called with f.mu held.
func (f *FakeEngines) takeFailure(engine string) *failure {
	fl, ok := f.failures[engine]
	if !ok {
		return nil
	}
	if fl.remaining > 0 {
		fl.remaining--
		if fl.remaining == 0 {
			delete(f.failures, engine)
		} else {
			f.failures[engine] = fl
		}
	}
	return &fl
}

func (f *FakeEngines) whisper(cmd command.Command) (command.Result, error) {
	if len(cmd.Args) == 0 {
		return command.Result{ExitCode: 2}, errors.New("missing audio argument")
	}
	audio := cmd.Args[0]
	outDir := flagValue(cmd.Args, "--output_dir")
	stem := strings.TrimSuffix(filepath.Base(audio), filepath.Ext(audio))
	payload := `{"text": "salam donya", "segments": [` +
		`{"id": 1, "start": 2.0, "end": 3.5, "text": " donya "},` +
		`{"id": 0, "start": 0.0, "end": 1.5, "text": " salam"},` +
		`{"id": 2, "start": 4.0, "end": 4.0, "text": "empty"}]}`
	if err := os.WriteFile(filepath.Join(outDir, stem+".json"), []byte(payload), 0o644); err != nil {
		return command.Result{ExitCode: 1, Stderr: err.Error()}, err
	}
	return command.Result{}, nil
}

func (f *FakeEngines) manim(cmd command.Command) (command.Result, error) {
	if len(cmd.Args) < 2 {
		return command.Result{ExitCode: 2}, errors.New("missing scene arguments")
	}
	mediaDir := flagValue(cmd.Args, "--media_dir")
	sceneFile := cmd.Args[len(cmd.Args)-2]
	sceneName := cmd.Args[len(cmd.Args)-1]
	stem := strings.TrimSuffix(filepath.Base(sceneFile), filepath.Ext(sceneFile))
	dir := filepath.Join(mediaDir, "videos", stem, "1080p60")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return command.Result{ExitCode: 1, Stderr: err.Error()}, err
	}
	if err := os.WriteFile(filepath.Join(dir, sceneName+".mov"), []byte("overlay"), 0o644); err != nil {
		return command.Result{ExitCode: 1, Stderr: err.Error()}, err
	}
	return command.Result{}, nil
}

func (f *FakeEngines) ffmpeg(cmd command.Command) (command.Result, error) {
	if len(cmd.Args) == 0 {
		return command.Result{ExitCode: 1}, errors.New("missing output")
	}
	output := cmd.Args[len(cmd.Args)-1]
	if err := os.WriteFile(output, []byte("composited video"), 0o644); err != nil {
		return command.Result{ExitCode: 1, Stderr: err.Error()}, err
	}
	return command.Result{}, nil
}

func engineName(cmd command.Command) string {
	return filepath.Base(cmd.Name)
}

func flagValue(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
