// Package resolver implements spec.md §4.3: selecting the winning catalog
// entry for a path among all matches, using the specificity lattice, the
// DENY-wins tie-break, and the special TRUSTED_DIR participation rule.
package resolver

import (
	"strings"

	"github.com/pathsentry/pathsentry/internal/catalog"
	"github.com/pathsentry/pathsentry/internal/decision"
	"github.com/pathsentry/pathsentry/internal/operation"
)

// blockingLevels are the lattice levels that shadow a TRUSTED_DIR pass, per
// spec.md §4.3 step 5. PERMISSIONS, DIR_GLOB and GLOB_MIDDLE are
// deliberately absent — a TRUSTED_DIR match can still win over them.
var blockingLevels = map[catalog.Level]bool{
	catalog.FileName:          true,
	catalog.FileExtension:     true,
	catalog.Directory:         true,
	catalog.SecurityDirectory: true,
}

// PermissionProbe inspects the filesystem and returns a synthetic
// PERMISSIONS entry when the path exists and is not readable by others. A
// non-nil error other than "path does not exist" must propagate as a
// fail-closed deny at the facade.
type PermissionProbe func(absPath string) (*catalog.Entry, error)

// Resolve selects the winning decision for path under op, given cat and a
// permission probe. homeDir is used to compute the "~/"-relative form some
// catalog entries are written against.
func Resolve(abs string, homeDir string, op operation.Operation, cat *catalog.Catalog, probe PermissionProbe) (decision.Decision, error) {
	tilde := tildeForm(abs, homeDir)

	matches := cat.Matching(abs, tilde, op)

	if probe != nil {
		probed, err := probe(abs)
		if err != nil {
			return decision.Decision{}, err
		}
		if probed != nil {
			matches = append(matches, *probed)
		}
	}

	var lattice []catalog.Entry
	var trusted []catalog.Entry
	for _, e := range matches {
		if e.Level == catalog.TrustedDir {
			trusted = append(trusted, e)
		} else {
			lattice = append(lattice, e)
		}
	}

	base := decision.Pass("no matching pattern")
	if len(lattice) > 0 {
		base = resolveLattice(lattice)
	}

	if op.IsReadShaped() && len(trusted) > 0 && !anyBlocking(lattice) {
		return decision.PassEntry(trusted[0]), nil
	}

	return base, nil
}

func resolveLattice(entries []catalog.Entry) decision.Decision {
	best := entries[0].Level
	for _, e := range entries[1:] {
		if e.Level.MoreSpecificThan(best) {
			best = e.Level
		}
	}

	var atBest []catalog.Entry
	for _, e := range entries {
		if e.Level == best {
			atBest = append(atBest, e)
		}
	}

	for _, e := range atBest {
		if e.Verdict == catalog.Deny {
			return decision.DenyEntry(e)
		}
	}
	return decision.PassEntry(atBest[0])
}

func anyBlocking(lattice []catalog.Entry) bool {
	for _, e := range lattice {
		if blockingLevels[e.Level] {
			return true
		}
	}
	return false
}

// tildeForm rewrites abs as a "~/"-relative path when it falls under
// homeDir, for matching the catalog's home-anchored patterns. It returns
// "" when abs is not under homeDir or homeDir is unknown.
func tildeForm(abs, homeDir string) string {
	if homeDir == "" {
		return ""
	}
	if abs == homeDir {
		return "~"
	}
	prefix := strings.TrimSuffix(homeDir, "/") + "/"
	if !strings.HasPrefix(abs, prefix) {
		return ""
	}
	return "~/" + strings.TrimPrefix(abs, prefix)
}
