package cli

import (
	"reflect"
	"testing"

	"github.com/pathsentry/pathsentry/internal/catalog"
	"github.com/pathsentry/pathsentry/internal/decision"
	"github.com/pathsentry/pathsentry/internal/operation"
)

func TestCandidatePaths_ReadUsesFilePath(t *testing.T) {
	got := candidatePaths(operation.Read, claudeToolInput{FilePath: "/tmp/a.txt"})
	want := []string{"/tmp/a.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCandidatePaths_GlobWithoutPathMeansNoCheck(t *testing.T) {
	got := candidatePaths(operation.Glob, claudeToolInput{})
	if got != nil {
		t.Fatalf("expected nil (no path check), got %v", got)
	}
}

func TestCandidatePaths_GlobWithPath(t *testing.T) {
	got := candidatePaths(operation.Glob, claudeToolInput{Path: "/tmp"})
	want := []string{"/tmp"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCandidatePaths_BashExtractsFromCommand(t *testing.T) {
	got := candidatePaths(operation.Bash, claudeToolInput{Command: "cat /etc/passwd"})
	want := []string{"/etc/passwd"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMatchSource_NilLevelIsInternalError(t *testing.T) {
	d := decision.Deny("boom")
	if got := matchSource(d); got != "internal error" {
		t.Fatalf("got %q, want %q", got, "internal error")
	}
}

func TestMatchSource_PermissionProbeHasNoMatchedEntry(t *testing.T) {
	level := catalog.Permissions
	d := decision.Decision{Verdict: catalog.Deny, Level: &level}
	if got := matchSource(d); got != "permission probe" {
		t.Fatalf("got %q, want %q", got, "permission probe")
	}
}

func TestMatchSource_CatalogEntryUsesLevelName(t *testing.T) {
	e := catalog.Entry{Level: catalog.FileName, Description: "x"}
	d := decision.DenyEntry(e)
	if got := matchSource(d); got != "FILE_NAME" {
		t.Fatalf("got %q, want %q", got, "FILE_NAME")
	}
}
