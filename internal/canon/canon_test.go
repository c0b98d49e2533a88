package canon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalize_AbsoluteNoSymlinks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Canonicalize(file, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != file {
		t.Errorf("got %q, want %q", got, file)
	}
}

func TestCanonicalize_RelativeResolvesAgainstBase(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "src")
	if err := os.MkdirAll(sub, 0o700); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(sub, "main.go")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Canonicalize("src/main.go", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != file {
		t.Errorf("got %q, want %q", got, file)
	}
}

func TestCanonicalize_RelativeWithoutBaseFails(t *testing.T) {
	_, err := Canonicalize("src/main.go", "")
	if err == nil {
		t.Fatal("expected error for relative path with no base dir")
	}
	var cErr *Error
	if !asError(err, &cErr) || cErr.Kind != UnresolvableBase {
		t.Errorf("expected UnresolvableBase, got %v", err)
	}
}

func TestCanonicalize_SymlinkFollowedByDotDot(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(a, "b")
	if err := os.MkdirAll(b, 0o700); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(dir, "link")
	if err := os.Symlink(b, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	// link -> /a/b, so link/../file should land in /a/file, not in
	// dir/file (the link's own parent).
	target := filepath.Join(a, "file.txt")
	if err := os.WriteFile(target, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Canonicalize(filepath.Join(link, "..", "file.txt"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != target {
		t.Errorf("got %q, want %q", got, target)
	}
}

func TestCanonicalize_NotYetExistingLeaf(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "new-file.txt")

	got, err := Canonicalize(want, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCanonicalize_MissingIntermediateDirFails(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "missing-dir", "new-file.txt")

	_, err := Canonicalize(want, "")
	if err == nil {
		t.Fatal("expected error for missing intermediate directory")
	}
}

func TestCanonicalize_FixedPoint(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	first, err := Canonicalize(file, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Canonicalize(first.String(), "")
	if err != nil {
		t.Fatalf("unexpected error on second pass: %v", err)
	}
	if first != second {
		t.Errorf("canonicalize is not a fixed point: %q != %q", first, second)
	}
}

// asError is a small helper since errors.As needs an addressable *Error.
func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
