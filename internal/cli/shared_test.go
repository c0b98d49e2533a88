package cli

import (
	"path/filepath"
	"testing"

	"github.com/pathsentry/pathsentry/internal/catalog"
	"github.com/pathsentry/pathsentry/internal/operation"
)

func TestBuildFilter_CreatesConfigDirAndLogsDecisions(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	bundle, err := buildFilter()
	if err != nil {
		t.Fatalf("buildFilter: %v", err)
	}
	defer bundle.Close()

	d := bundle.checkAndLog(operation.Read, filepath.Join(t.TempDir(), ".ssh", "id_rsa"), "", "test")
	if d.Verdict != catalog.Deny {
		t.Fatalf("expected SSH key read to be denied, got %s", d.Verdict)
	}
}
