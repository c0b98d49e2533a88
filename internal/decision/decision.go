// Package decision defines the result type the resolver and filter facade
// return: spec.md's {verdict, reason, matched} tuple.
package decision

import "github.com/pathsentry/pathsentry/internal/catalog"

// Decision is the outcome of evaluating a single path against the catalog.
type Decision struct {
	Verdict catalog.Verdict
	Reason  string
	// Level is nil when no entry (and no probe) contributed to the
	// decision — the "no matching pattern" pass case.
	Level *catalog.Level
	// Matched is the winning entry, if any. A synthetic PERMISSIONS probe
	// hit has no backing Entry, so Matched may be nil even when Level is
	// set to catalog.Permissions.
	Matched *catalog.Entry
}

// Pass builds a passing decision with the given reason and no matched
// entry — the "no matching pattern" / TRUSTED_DIR outcome.
func Pass(reason string) Decision {
	return Decision{Verdict: catalog.Pass, Reason: reason}
}

// DenyEntry builds a denying decision attributed to a specific catalog
// entry.
func DenyEntry(e catalog.Entry) Decision {
	level := e.Level
	entry := e
	return Decision{
		Verdict: catalog.Deny,
		Reason:  e.Description,
		Level:   &level,
		Matched: &entry,
	}
}

// PassEntry builds a passing decision attributed to a specific catalog
// entry (e.g. the winning entry at a level with no Deny present).
func PassEntry(e catalog.Entry) Decision {
	level := e.Level
	entry := e
	return Decision{
		Verdict: catalog.Pass,
		Reason:  e.Description,
		Level:   &level,
		Matched: &entry,
	}
}

// Deny builds a denying decision with no associated lattice level — used
// for canonicalization failures and other facade-level errors that never
// reached pattern matching at all.
func Deny(reason string) Decision {
	return Decision{Verdict: catalog.Deny, Reason: reason}
}
