// Package catalog holds the static pattern catalog the resolver scans: an
// ordered specificity lattice of (regex-or-glob, level, verdict) entries,
// loadable from compiled-in defaults, a YAML file, and merged packs.
package catalog

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pathsentry/pathsentry/internal/operation"
)

// Level is the specificity lattice from spec.md §3, ordered strictly from
// most to least specific. TrustedDir is a pseudo-level handled outside the
// lattice by the resolver (spec.md §4.3 step 5).
type Level int

const (
	FileName Level = iota
	FileExtension
	Directory
	SecurityDirectory
	Permissions
	DirGlob
	GlobMiddle
	TrustedDir
)

var levelNames = map[Level]string{
	FileName:          "FILE_NAME",
	FileExtension:     "FILE_EXTENSION",
	Directory:         "DIRECTORY",
	SecurityDirectory: "SECURITY_DIRECTORY",
	Permissions:       "PERMISSIONS",
	DirGlob:           "DIR_GLOB",
	GlobMiddle:        "GLOB_MIDDLE",
	TrustedDir:        "TRUSTED_DIR",
}

var namesToLevel = func() map[string]Level {
	m := make(map[string]Level, len(levelNames))
	for l, n := range levelNames {
		m[n] = l
	}
	return m
}()

func (l Level) String() string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel maps a level name (as used in YAML catalog/pack files) to a
// Level. Matching is exact and case-sensitive on purpose: a typo in a pack
// file should fail loudly, not silently fall back to a default level.
func ParseLevel(name string) (Level, error) {
	if l, ok := namesToLevel[name]; ok {
		return l, nil
	}
	return 0, fmt.Errorf("unknown pattern level %q", name)
}

// MoreSpecificThan reports whether l is strictly more specific than other,
// per the lattice ordering. TrustedDir is never compared this way — it is
// excluded from the lattice scan entirely (see resolver.Resolve).
func (l Level) MoreSpecificThan(other Level) bool {
	return l < other
}

// Verdict is the pass/deny outcome a single pattern entry or probe carries.
type Verdict string

const (
	Pass Verdict = "Pass"
	Deny Verdict = "Deny"
)

// Entry is a single catalog rule. Exactly one of Regex or Glob is set; a
// catalog with an entry carrying both or neither fails to build.
type Entry struct {
	RegexSrc    string
	Glob        string
	Level       Level
	Verdict     Verdict
	Description string

	// ApplicableOps restricts the entry to a subset of operations. A nil or
	// empty slice means "all operations" (spec.md §4.2's default), except
	// for TrustedDir entries, whose zero value always means read-shaped-only
	// (spec.md §4.2's "applies to read-shaped operations only").
	ApplicableOps []operation.Operation

	// SkipIfCodeExtension carves out source-code files from a
	// SecurityDirectory substring match (spec.md §4.2: "the false-positive
	// class of variables named password inside source files").
	SkipIfCodeExtension bool

	compiled *regexp.Regexp
}

func (e *Entry) appliesTo(op operation.Operation) bool {
	if e.Level == TrustedDir {
		return op.IsReadShaped()
	}
	if len(e.ApplicableOps) == 0 {
		return true
	}
	for _, o := range e.ApplicableOps {
		if o == op {
			return true
		}
	}
	return false
}

// Matches reports whether the entry matches a path. abs is the canonical
// absolute path; tilde is the same path with the user's home directory
// prefix replaced by "~" (empty if the path isn't under home) — patterns
// anchored on "~/" (the DIR_GLOB and TrustedDir baselines) are written
// against that form, per spec.md §4.2.
func (e *Entry) Matches(abs, tilde string, codeExtensions map[string]bool) bool {
	if e.SkipIfCodeExtension && isCodeFile(abs, codeExtensions) {
		return false
	}

	if e.Glob != "" {
		if ok, _ := doublestar.Match(e.Glob, strings.TrimPrefix(abs, "/")); ok {
			return true
		}
		if tilde != "" {
			if ok, _ := doublestar.Match(e.Glob, tilde); ok {
				return true
			}
		}
		return false
	}

	if e.compiled == nil {
		return false
	}
	if e.compiled.MatchString(abs) {
		return true
	}
	return tilde != "" && e.compiled.MatchString(tilde)
}

func isCodeFile(path string, codeExtensions map[string]bool) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return codeExtensions[ext]
}

// defaultCodeExtensions is the minimum source-code extension set spec.md
// §4.2 freezes. It is a var, not a const, so a pack's code_extensions key
// can extend it (SPEC_FULL.md Open Question 1).
var defaultCodeExtensions = map[string]bool{
	".c": true, ".cc": true, ".cpp": true, ".h": true, ".hpp": true,
	".rs": true, ".go": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".py": true, ".java": true, ".rb": true, ".md": true,
}

// Catalog is an immutable, ordered pattern list plus the code-extension set
// used by the SecurityDirectory carve-out.
type Catalog struct {
	entries        []Entry
	codeExtensions map[string]bool
}

// CatalogError wraps a build-time failure (duplicate entry, malformed
// regex, malformed entry). Per spec.md §7 this is a startup abort, never a
// runtime deny.
type CatalogError struct {
	Entry Entry
	Err   error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog entry %q (%s): %v", e.Entry.Description, e.Entry.Level, e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

// New builds an immutable Catalog from a flat entry list, compiling
// regexes and rejecting duplicate (regex-or-glob, level) pairs per the
// invariant in spec.md §3.
func New(entries []Entry, extraCodeExtensions ...string) (*Catalog, error) {
	codeExtensions := make(map[string]bool, len(defaultCodeExtensions))
	for ext := range defaultCodeExtensions {
		codeExtensions[ext] = true
	}
	for _, ext := range extraCodeExtensions {
		codeExtensions[strings.ToLower(ext)] = true
	}

	seen := make(map[string]bool, len(entries))
	built := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if e.RegexSrc == "" && e.Glob == "" {
			return nil, &CatalogError{Entry: e, Err: fmt.Errorf("entry has neither regex nor glob")}
		}
		if e.RegexSrc != "" && e.Glob != "" {
			return nil, &CatalogError{Entry: e, Err: fmt.Errorf("entry has both regex and glob, exactly one is required")}
		}

		key := fmt.Sprintf("%s\x00%s\x00%d", e.RegexSrc, e.Glob, e.Level)
		if seen[key] {
			return nil, &CatalogError{Entry: e, Err: fmt.Errorf("duplicate (pattern, level) entry")}
		}
		seen[key] = true

		if e.RegexSrc != "" {
			compiled, err := regexp.Compile(e.RegexSrc)
			if err != nil {
				return nil, &CatalogError{Entry: e, Err: fmt.Errorf("invalid regex: %w", err)}
			}
			e.compiled = compiled
		}

		built = append(built, e)
	}

	return &Catalog{entries: built, codeExtensions: codeExtensions}, nil
}

// Entries returns the catalog's entries. The resolver is responsible for
// reordering by level; iteration order here is not meaningful.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// CodeExtensions returns the effective source-code extension set, baseline
// plus any pack-contributed additions.
func (c *Catalog) CodeExtensions() map[string]bool {
	return c.codeExtensions
}

// Matching returns every entry that matches path for op.
func (c *Catalog) Matching(abs, tilde string, op operation.Operation) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if !e.appliesTo(op) {
			continue
		}
		if e.Matches(abs, tilde, c.codeExtensions) {
			out = append(out, e)
		}
	}
	return out
}
