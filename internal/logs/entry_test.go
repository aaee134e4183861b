package logs_test

import (
	"strings"
	"testing"

	"kinetic/internal/logs"
)

const sampleLine = `{"ts":"2026-01-02T03:04:05Z","level":"info","msg":"stage started","component":"workflow","job_id":7,"stage":"transcript","cached":false,"path":"/tmp/a b"}`

func TestParseEntry(t *testing.T) {
	entry, ok := logs.ParseEntry(sampleLine)
	if !ok {
		t.Fatal("expected JSON line to parse")
	}
	if entry.JobID != 7 || entry.Component != "workflow" || entry.Stage != "transcript" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Level != "info" || entry.Message != "stage started" {
		t.Fatalf("unexpected level/message: %+v", entry)
	}
	if entry.Fields["cached"] != "false" {
		t.Fatalf("expected remaining fields, got %#v", entry.Fields)
	}
	if entry.Time.Year() != 2026 {
		t.Fatalf("expected timestamp parsed, got %v", entry.Time)
	}
}

func TestParseEntryPlainText(t *testing.T) {
	entry, ok := logs.ParseEntry("panic: boom")
	if ok {
		t.Fatal("plain text should not parse")
	}
	if logs.FormatEntry(entry, ok) != "panic: boom" {
		t.Fatalf("plain text should be printed as-is")
	}
}

func TestFilterMatch(t *testing.T) {
	entry, ok := logs.ParseEntry(sampleLine)
	cases := []struct {
		name   string
		filter logs.Filter
		want   bool
	}{
		{"empty", logs.Filter{}, true},
		{"same job", logs.Filter{JobID: 7}, true},
		{"other job", logs.Filter{JobID: 8}, false},
		{"component", logs.Filter{Component: "WORKFLOW"}, true},
		{"level below", logs.Filter{MinLevel: "debug"}, true},
		{"level above", logs.Filter{MinLevel: "warn"}, false},
	}
	for _, tc := range cases {
		if got := tc.filter.Match(entry, ok); got != tc.want {
			t.Errorf("%s: Match = %v, want %v", tc.name, got, tc.want)
		}
	}
	if (logs.Filter{JobID: 7}).Match(logs.Entry{Raw: "x"}, false) {
		t.Error("plain text should not match a job filter")
	}
}

func TestFormatEntry(t *testing.T) {
	entry, ok := logs.ParseEntry(sampleLine)
	line := logs.FormatEntry(entry, ok)
	for _, want := range []string{"INFO", "[workflow]", "job 7/transcript:", "stage started", "cached=false", `path="/tmp/a b"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Index(line, "cached=") > strings.Index(line, "path=") {
		t.Fatalf("fields should be sorted: %q", line)
	}
}
