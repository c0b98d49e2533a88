// Package filter implements the C4 filter facade: canonicalize, match,
// resolve, and produce a Decision, with the sole fail-closed error mapping
// spec.md §4.4 requires living entirely in this package.
package filter

import (
	"os"

	"github.com/pathsentry/pathsentry/internal/canon"
	"github.com/pathsentry/pathsentry/internal/catalog"
	"github.com/pathsentry/pathsentry/internal/decision"
	"github.com/pathsentry/pathsentry/internal/operation"
	"github.com/pathsentry/pathsentry/internal/resolver"
)

// Filter is the facade callers construct once per process and reuse across
// calls. It holds the catalog (immutable after New) and the resolved home
// directory used for "~/"-relative pattern matching.
type Filter struct {
	catalog *catalog.Catalog
	homeDir string
	probe   resolver.PermissionProbe
}

// New builds a Filter, loading catalogPath (falling back to the compiled-in
// baseline when it doesn't exist) and merging any packs found in packsDir.
// Either path may be empty to skip that source.
func New(catalogPath, packsDir string) (*Filter, error) {
	var cat *catalog.Catalog
	var err error

	if catalogPath != "" {
		cat, err = catalog.Load(catalogPath)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return nil, err
	}

	if packsDir != "" {
		merged, _, err := catalog.LoadPacks(packsDir, cat)
		if err != nil {
			return nil, err
		}
		cat = merged
	}

	home, _ := os.UserHomeDir()

	return &Filter{catalog: cat, homeDir: home, probe: resolver.DefaultProbe}, nil
}

// PathDecision pairs a raw input path with its Decision, for CheckMany's
// full per-path report.
type PathDecision struct {
	Path     string
	Decision decision.Decision
}

// BatchDecision is the result of CheckMany: an overall verdict (Deny the
// moment any path denies) plus every individual path's decision, so the
// adapter may log rejected siblings.
type BatchDecision struct {
	Denied  bool
	Results []PathDecision
}

// Check canonicalizes rawPath, resolves a decision against the catalog, and
// never lets a canonicalization or probe error escape uncaught — every such
// error becomes a Deny decision with a diagnostic reason (spec.md §4.4,
// §7).
func (f *Filter) Check(op operation.Operation, rawPath, baseDir string) decision.Decision {
	path, err := canon.Canonicalize(rawPath, baseDir)
	if err != nil {
		return denyForError(err)
	}

	d, err := resolver.Resolve(path.String(), f.homeDir, op, f.catalog, f.probe)
	if err != nil {
		return denyForError(err)
	}
	return d
}

// CheckMany evaluates every path independently and stops treating the
// batch as passing the moment any path denies, while still returning every
// individual decision.
func (f *Filter) CheckMany(op operation.Operation, rawPaths []string, baseDir string) BatchDecision {
	batch := BatchDecision{Results: make([]PathDecision, 0, len(rawPaths))}
	for _, p := range rawPaths {
		d := f.Check(op, p, baseDir)
		batch.Results = append(batch.Results, PathDecision{Path: p, Decision: d})
		if d.Verdict == catalog.Deny {
			batch.Denied = true
		}
	}
	return batch
}

func denyForError(err error) decision.Decision {
	if cErr, ok := err.(*canon.Error); ok {
		switch cErr.Kind {
		case canon.SymlinkLoop:
			return decision.Deny("symlink loop/too deep")
		case canon.UnresolvableBase:
			return decision.Deny("unresolvable base directory")
		case canon.PermissionDenied:
			return decision.Deny("permission denied during resolution")
		default:
			return decision.Deny("path resolution failed: " + cErr.Error())
		}
	}
	return decision.Deny("internal error: " + err.Error())
}
