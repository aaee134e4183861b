package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"kinetic/internal/artifactcache"
	"kinetic/internal/config"
	"kinetic/internal/logging"
	"kinetic/internal/services"
	"kinetic/internal/services/whisper"
	"kinetic/internal/testsupport"
)

type progressEvent struct {
	percent int
	message string
}

type recordingReporter struct {
	mu     sync.Mutex
	events []progressEvent
}

func (r *recordingReporter) ReportProgress(_ context.Context, _ int64, percent int, message string) {
	r.mu.Lock()
	r.events = append(r.events, progressEvent{percent: percent, message: message})
	r.mu.Unlock()
}

func (r *recordingReporter) snapshot() []progressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]progressEvent(nil), r.events...)
}

func newTestExecutor(t *testing.T, cfg *config.Config, fake *testsupport.FakeEngines) (*Executor, *artifactcache.Store) {
	t.Helper()
	cache, err := artifactcache.New(cfg.Paths.CacheDir, logging.NewNop())
	if err != nil {
		t.Fatalf("artifactcache.New: %v", err)
	}
	exec := NewExecutor(cfg, cache, NewEngines(cfg, fake), logging.NewNop())
	exec.now = func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local) }
	return exec, cache
}

func writeInputs(t *testing.T, cfg *config.Config) (string, string) {
	t.Helper()
	base := testsupport.BaseDir(cfg)
	audio := testsupport.WriteContent(t, filepath.Join(base, "inputs", "song.mp3"), "fake mp3 bytes")
	video := testsupport.WriteContent(t, filepath.Join(base, "inputs", "loop.mp4"), "fake mp4 bytes")
	return audio, video
}

func TestRunProducesOutputsAndMilestones(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fake := testsupport.NewFakeEngines()
	exec, cache := newTestExecutor(t, cfg, fake)
	audio, video := writeInputs(t, cfg)

	reporter := &recordingReporter{}
	result, err := exec.Run(context.Background(), Request{JobID: 1, Token: "abcd1234", AudioPath: audio, VideoPath: video}, reporter)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []progressEvent{
		{ProgressFingerprint, MessageFingerprint},
		{ProgressTranscript, MessageTranscribing},
		{ProgressBeats, MessageDetectingBeats},
		{ProgressRender, MessageRendering},
		{ProgressComposite, MessageCompositing},
		{ProgressDone, MessageDone},
	}
	got := reporter.snapshot()
	if len(got) != len(want) {
		t.Fatalf("progress events = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if result.TranscriptCached || result.BeatsCached {
		t.Fatalf("first run should miss the cache: %+v", result)
	}
	if len(result.Fingerprint) != 64 {
		t.Fatalf("fingerprint %q is not a sha256 hex digest", result.Fingerprint)
	}
	wantOutput := filepath.Join(cfg.Paths.OutputDir, "final_20260314_092653_abcd1234.mp4")
	if result.OutputPath != wantOutput {
		t.Fatalf("output = %s, want %s", result.OutputPath, wantOutput)
	}
	wantOverlay := filepath.Join(cfg.Paths.OutputDir, "manim_20260314_092653_abcd1234.mov")
	if result.OverlayPath != wantOverlay {
		t.Fatalf("overlay = %s, want %s", result.OverlayPath, wantOverlay)
	}
	for _, path := range []string{result.OutputPath, result.OverlayPath} {
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Fatalf("expected non-empty %s: %v", path, err)
		}
	}

	data, ok, err := cache.Get(artifactcache.ClassTranscript, result.Fingerprint)
	if err != nil || !ok {
		t.Fatalf("transcript not cached: ok=%v err=%v", ok, err)
	}
	segments, err := whisper.Decode(data)
	if err != nil {
		t.Fatalf("decode cached transcript: %v", err)
	}
	if len(segments) != 2 || segments[0].Text != "salam" || segments[1].Text != "donya" {
		t.Fatalf("unexpected cached segments %+v", segments)
	}
	beats, ok, err := cache.Get(artifactcache.ClassBeats, result.Fingerprint)
	if err != nil || !ok {
		t.Fatalf("beats not cached: ok=%v err=%v", ok, err)
	}
	if !strings.Contains(string(beats), "0.5") {
		t.Fatalf("unexpected cached beats %q", beats)
	}

	if _, err := os.Stat(filepath.Join(cfg.Paths.WorkDir, "job-1-abcd1234")); !os.IsNotExist(err) {
		t.Fatalf("workspace should be removed after the run, stat err=%v", err)
	}
}

func TestSecondRunWithSameAudioUsesCache(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fake := testsupport.NewFakeEngines()
	exec, _ := newTestExecutor(t, cfg, fake)
	audio, video := writeInputs(t, cfg)

	first, err := exec.Run(context.Background(), Request{JobID: 1, Token: "aaaa1111", AudioPath: audio, VideoPath: video}, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	reporter := &recordingReporter{}
	second, err := exec.Run(context.Background(), Request{JobID: 2, Token: "bbbb2222", AudioPath: audio, VideoPath: video}, reporter)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if got := fake.Count("whisper"); got != 1 {
		t.Fatalf("whisper invoked %d times, want 1", got)
	}
	if got := fake.Count("aubio"); got != 1 {
		t.Fatalf("aubio invoked %d times, want 1", got)
	}
	if got := fake.Count("manim"); got != 2 {
		t.Fatalf("manim invoked %d times, want 2", got)
	}
	if !second.TranscriptCached || !second.BeatsCached {
		t.Fatalf("second run should hit the cache: %+v", second)
	}
	if first.OutputPath == second.OutputPath {
		t.Fatalf("runs must produce distinct outputs, both wrote %s", first.OutputPath)
	}
	if first.Fingerprint != second.Fingerprint {
		t.Fatalf("fingerprints differ for identical audio")
	}

	messages := map[string]bool{}
	for _, ev := range reporter.snapshot() {
		messages[ev.message] = true
	}
	if !messages[MessageCachedTranscript] || !messages[MessageCachedBeats] {
		t.Fatalf("expected cached messages, got %+v", reporter.snapshot())
	}
}

func TestUnreadableAudioFailsBeforeEngines(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fake := testsupport.NewFakeEngines()
	exec, cache := newTestExecutor(t, cfg, fake)
	_, video := writeInputs(t, cfg)

	_, err := exec.Run(context.Background(), Request{
		JobID:     3,
		Token:     "cccc3333",
		AudioPath: filepath.Join(testsupport.BaseDir(cfg), "missing.mp3"),
		VideoPath: video,
	}, nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if calls := fake.Calls(); len(calls) != 0 {
		t.Fatalf("no engine should run, got %d calls", len(calls))
	}
	entries, err := cache.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("cache should stay empty, got %+v", entries)
	}
}

func TestRenderFailureAbortsRemainingStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	fake := testsupport.NewFakeEngines()
	fake.Fail("manim", "Traceback\nValueError: scene exploded")
	exec, cache := newTestExecutor(t, cfg, fake)
	audio, video := writeInputs(t, cfg)

	result, err := exec.Run(context.Background(), Request{JobID: 4, Token: "dddd4444", AudioPath: audio, VideoPath: video}, nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("err = %v, want external tool error", err)
	}
	if !strings.Contains(err.Error(), "render") || !strings.Contains(err.Error(), "scene exploded") {
		t.Fatalf("error should name the stage and engine detail: %v", err)
	}
	if result.OutputPath != "" {
		t.Fatalf("failed run returned output %q", result.OutputPath)
	}
	if got := fake.Count("ffmpeg"); got != 0 {
		t.Fatalf("composite must not run after render failure, ran %d times", got)
	}
	entries, err := cache.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("transcript and beats computed before the failure should stay cached, got %+v", entries)
	}
}

func TestKeepWorkspacesRetainsRenderInputs(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithKeepWorkspaces())
	fake := testsupport.NewFakeEngines()
	exec, _ := newTestExecutor(t, cfg, fake)
	audio, video := writeInputs(t, cfg)

	if _, err := exec.Run(context.Background(), Request{JobID: 5, Token: "eeee5555", AudioPath: audio, VideoPath: video}, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	renderDir := filepath.Join(cfg.Paths.WorkDir, "job-5-eeee5555", "render")
	for _, name := range []string{"segments.json", "beats.json"} {
		if _, err := os.Stat(filepath.Join(renderDir, name)); err != nil {
			t.Fatalf("expected %s in retained workspace: %v", name, err)
		}
	}

	var renderEnv []string
	for _, call := range fake.Calls() {
		if filepath.Base(call.Name) == "manim" {
			renderEnv = call.Env
			if call.Dir != renderDir {
				t.Fatalf("manim ran in %s, want %s", call.Dir, renderDir)
			}
		}
	}
	wantEnv := "KINETIC_SEGMENTS=" + filepath.Join(renderDir, "segments.json")
	found := false
	for _, kv := range renderEnv {
		if kv == wantEnv {
			found = true
		}
	}
	if !found {
		t.Fatalf("manim env %v missing %s", renderEnv, wantEnv)
	}
}
