package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"kinetic/internal/config"
)

// WriteContent writes content to path, creating parent directories.
func WriteContent(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// InputPair writes an audio and base-video file under the config's temp root.
// The audio bytes depend only on name, so two pairs with the same name share
// a fingerprint.
func InputPair(t testing.TB, cfg *config.Config, name string) (audio, video string) {
	t.Helper()

	dir := filepath.Join(BaseDir(cfg), "inputs")
	audio = WriteContent(t, filepath.Join(dir, name+".mp3"), "audio "+name)
	video = WriteContent(t, filepath.Join(dir, name+".mp4"), "video "+name)
	return audio, video
}

// StubBinary writes an executable shell script named name into dir.
func StubBinary(t testing.TB, dir, name, script string) string {
	t.Helper()

	if script == "" {
		script = "exit 0\n"
	}
	target := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}
