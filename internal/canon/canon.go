// Package canon canonicalizes user- and agent-supplied paths into an
// absolute, symlink-resolved normal form, bounded against symlink attacks.
package canon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Path is an absolute, symlink- and ".."-resolved path. It never carries a
// trailing slash except for the filesystem root itself.
type Path string

func (p Path) String() string { return string(p) }

// maxSymlinkHops bounds the total number of symlink resolutions performed
// while walking a single path, not per path component.
const maxSymlinkHops = 40

// ErrorKind classifies why canonicalization failed. Every kind maps to a
// fixed deny reason at the filter facade.
type ErrorKind int

const (
	Other ErrorKind = iota
	SymlinkLoop
	UnresolvableBase
	PermissionDenied
)

// Error is the error type Canonicalize returns. It always carries a Kind so
// callers can map it to a deny reason without string-matching.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case SymlinkLoop:
		return fmt.Sprintf("symlink loop/too deep: %s", e.Path)
	case UnresolvableBase:
		return fmt.Sprintf("unresolvable base directory: %s", e.Path)
	case PermissionDenied:
		return fmt.Sprintf("permission denied during resolution: %s", e.Path)
	default:
		return fmt.Sprintf("path resolution failed: %s: %v", e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Canonicalize normalizes raw to an absolute, symlink-resolved Path.
// Relative paths (after tilde expansion) are resolved against baseDir, the
// caller's declared working directory. A raw path beginning with "~" is
// expanded against the current user's home directory; if HOME cannot be
// determined, canonicalization fails.
func Canonicalize(raw, baseDir string) (Path, error) {
	expanded, err := expandTilde(raw)
	if err != nil {
		return "", err
	}

	abs := expanded
	if !filepath.IsAbs(abs) {
		if baseDir == "" {
			return "", newErr(UnresolvableBase, raw, errors.New("relative path given with no base directory"))
		}
		baseAbs, err := expandTilde(baseDir)
		if err != nil {
			return "", newErr(UnresolvableBase, baseDir, err)
		}
		if !filepath.IsAbs(baseAbs) {
			return "", newErr(UnresolvableBase, baseDir, errors.New("base directory is not itself absolute"))
		}
		abs = filepath.Join(baseAbs, abs)
	}

	return resolveSymlinks(abs)
}

func expandTilde(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", newErr(UnresolvableBase, p, errors.New("HOME is not set"))
	}
	if p == "~" {
		return home, nil
	}
	return filepath.Join(home, p[2:]), nil
}

// resolveSymlinks walks abs component by component, left to right,
// resolving symlinks as they're encountered. ".." segments are collapsed
// against the path as resolved *so far*, which is what makes a symlink to
// /a/b followed by ".." land in /a rather than in the link's own parent.
func resolveSymlinks(abs string) (Path, error) {
	queue := splitComponents(abs)
	resolved := string(filepath.Separator)
	hops := 0

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		if c == ".." {
			resolved = filepath.Dir(resolved)
			continue
		}

		candidate := filepath.Join(resolved, c)
		info, err := os.Lstat(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				// The leaf doesn't exist yet: return the deepest existing
				// prefix plus the un-walked remainder, so writes to
				// not-yet-existing files can still be evaluated. A missing
				// *intermediate* directory is a hard failure.
				if len(queue) > 0 {
					return "", newErr(Other, candidate, fmt.Errorf("intermediate path component does not exist: %s", candidate))
				}
				return Path(candidate), nil
			}
			if os.IsPermission(err) {
				return "", newErr(PermissionDenied, candidate, err)
			}
			return "", newErr(Other, candidate, err)
		}

		if info.Mode()&os.ModeSymlink == 0 {
			resolved = candidate
			continue
		}

		hops++
		if hops > maxSymlinkHops {
			return "", newErr(SymlinkLoop, candidate, fmt.Errorf("exceeded %d symlink hops", maxSymlinkHops))
		}

		target, err := os.Readlink(candidate)
		if err != nil {
			return "", newErr(Other, candidate, err)
		}

		if filepath.IsAbs(target) {
			resolved = string(filepath.Separator)
		}
		queue = append(splitComponents(target), queue...)
	}

	// Defense in depth: re-derive the canonical form through
	// filepath-securejoin, which independently resolves symlinks and clamps
	// ".." at the root, so a bug in the walk above can't smuggle a residual
	// escape past this point.
	safe, err := securejoin.SecureJoin(string(filepath.Separator), strings.TrimPrefix(resolved, string(filepath.Separator)))
	if err != nil {
		return "", newErr(Other, resolved, err)
	}

	return Path(safe), nil
}

func splitComponents(p string) []string {
	clean := filepath.Clean(p)
	parts := strings.Split(clean, string(filepath.Separator))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			out = append(out, part)
		}
	}
	return out
}
