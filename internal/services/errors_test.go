package services_test

import (
	"errors"
	"strings"
	"testing"

	"kinetic/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "composite", "ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"composite", "ffmpeg", "failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want error
	}{
		{services.Wrap(services.ErrValidation, "fingerprint", "read", "unreadable", nil), services.ErrValidation},
		{services.Wrap(services.ErrNotFound, "api", "get", "missing", nil), services.ErrNotFound},
		{services.Wrap(services.ErrExternalTool, "render", "manim", "exit 1", nil), services.ErrExternalTool},
		{errors.New("plain"), services.ErrTransient},
	}
	for _, tc := range cases {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
	if !services.Classified(cases[0].err) {
		t.Fatal("expected wrapped error to be classified")
	}
	if services.Classified(errors.New("plain")) || services.Classified(nil) {
		t.Fatal("plain and nil errors carry no marker")
	}
}
