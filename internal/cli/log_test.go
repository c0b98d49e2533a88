package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pathsentry/pathsentry/internal/audit"
)

func TestReadAuditLog_MissingFileReturnsEmpty(t *testing.T) {
	events, err := readAuditLog(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestReadAuditLog_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	content := `{"timestamp":"2026-01-01T00:00:00Z","operation":"Read","path":"/a","verdict":"pass"}
not json at all
{"timestamp":"2026-01-01T00:00:01Z","operation":"Read","path":"/b","verdict":"deny"}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	events, err := readAuditLog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 well-formed events, got %d", len(events))
	}
}

func TestFilterEvents_ByVerdict(t *testing.T) {
	events := []audit.Event{
		{Path: "/a", Verdict: "pass"},
		{Path: "/b", Verdict: "deny"},
		{Path: "/c", Verdict: "DENY"},
	}

	old := logFilterVerdict
	defer func() { logFilterVerdict = old }()

	logFilterVerdict = "deny"
	got := filterEvents(events)
	if len(got) != 2 {
		t.Fatalf("expected 2 denied events, got %d", len(got))
	}

	logFilterVerdict = ""
	if got := filterEvents(events); len(got) != 3 {
		t.Fatalf("expected all events when no filter set, got %d", len(got))
	}
}

func TestFormatLogTimestamp_FallsBackOnUnparseable(t *testing.T) {
	if got := formatLogTimestamp("garbage"); got != "garbage" {
		t.Fatalf("expected raw passthrough, got %q", got)
	}
}
