package deps

import (
	"os"
	"path/filepath"
	"testing"

	"kinetic/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  ", Optional: true},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}

	missing := Missing(results)
	if len(missing) != 1 || missing[0].Name != "Missing" {
		t.Fatalf("expected only the required missing binary, got %#v", missing)
	}
}

func TestEngineRequirementsFollowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Binary = "/opt/manim/bin/manim"

	reqs := EngineRequirements(&cfg)
	if len(reqs) != 4 {
		t.Fatalf("expected 4 engines, got %d", len(reqs))
	}
	want := []string{"whisper", "aubio", "/opt/manim/bin/manim", "ffmpeg"}
	for i, req := range reqs {
		if req.Command != want[i] {
			t.Fatalf("requirement %d command = %q, want %q", i, req.Command, want[i])
		}
	}
	if EngineRequirements(nil) != nil {
		t.Fatal("expected nil requirements for nil config")
	}
}
