package cli

import (
	"testing"
)

func TestRunSelftest_PassesAgainstBuiltinCatalog(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runSelftest(selftestCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
