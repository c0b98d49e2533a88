package cli

import "testing"

func TestRunStatus_SucceedsAgainstFreshHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runStatus(statusCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExistsLabel(t *testing.T) {
	if got := existsLabel("/definitely/does/not/exist/pathsentry"); got != "not present, using built-in defaults" {
		t.Fatalf("got %q", got)
	}
}
