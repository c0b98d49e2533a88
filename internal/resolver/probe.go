package resolver

import (
	"fmt"
	"os"

	"github.com/pathsentry/pathsentry/internal/catalog"
)

// othersReadBit is the "others can read" permission bit, per spec.md
// §4.3 step 6: a probe hit fires when this bit is cleared (mode & 0o004 == 0).
const othersReadBit = 0o004

// DefaultProbe implements spec.md's permission probe: if the canonical
// path exists and the others-read bit is cleared, it returns a synthetic
// PERMISSIONS/Deny entry. A path that doesn't exist yet (e.g. a Write
// target) is not a probe hit — and not an error. Any other stat failure
// propagates so the caller can fail closed.
func DefaultProbe(absPath string) (*catalog.Entry, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if info.Mode().Perm()&othersReadBit != 0 {
		return nil, nil
	}

	return &catalog.Entry{
		Level:       catalog.Permissions,
		Verdict:     catalog.Deny,
		Description: fmt.Sprintf("restrictive file permissions (mode %#o)", info.Mode().Perm()),
	}, nil
}
