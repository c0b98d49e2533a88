package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsYAMLName(t *testing.T) {
	cases := map[string]bool{
		"terminal-safety.yaml": true,
		"supply-chain.yml":     true,
		"_disabled.yaml":       true,
		"README.md":            false,
		"notes.txt":            false,
	}
	for name, want := range cases {
		if got := isYAMLName(name); got != want {
			t.Errorf("isYAMLName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRunPackEnableDisable_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir, err := resolvePacksDir()
	if err != nil {
		t.Fatalf("resolvePacksDir: %v", err)
	}

	enabledPath := filepath.Join(dir, "extra.yaml")
	if err := os.WriteFile(enabledPath, []byte("entries: []\n"), 0o600); err != nil {
		t.Fatalf("failed to seed pack file: %v", err)
	}

	if err := runPackDisable(packDisableCmd, []string{"extra"}); err != nil {
		t.Fatalf("runPackDisable: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "_extra.yaml")); err != nil {
		t.Fatalf("expected disabled file to exist: %v", err)
	}

	if err := runPackEnable(packEnableCmd, []string{"extra"}); err != nil {
		t.Fatalf("runPackEnable: %v", err)
	}
	if _, err := os.Stat(enabledPath); err != nil {
		t.Fatalf("expected re-enabled file to exist: %v", err)
	}
}

func TestRunPackEnable_MissingPackReturnsError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runPackEnable(packEnableCmd, []string{"does-not-exist"}); err == nil {
		t.Fatal("expected error for missing pack")
	}
}

func TestRunPackShow_PrintsRawYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir, err := resolvePacksDir()
	if err != nil {
		t.Fatalf("resolvePacksDir: %v", err)
	}
	content := "entries:\n  - pattern: \"*.pem\"\n"
	if err := os.WriteFile(filepath.Join(dir, "crypto.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to seed pack file: %v", err)
	}

	if err := runPackShow(packShowCmd, []string{"crypto"}); err != nil {
		t.Fatalf("runPackShow: %v", err)
	}
}
