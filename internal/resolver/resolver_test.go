package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathsentry/pathsentry/internal/catalog"
	"github.com/pathsentry/pathsentry/internal/operation"
)

func noProbe(string) (*catalog.Entry, error) { return nil, nil }

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

const home = "/home/u"

func TestResolve_S1_SSHKeyFileNameDeny(t *testing.T) {
	cat := mustCatalog(t)
	got, err := Resolve(home+"/.ssh/id_ed25519", home, operation.Read, cat, noProbe)
	require.NoError(t, err)
	require.Equal(t, catalog.Deny, got.Verdict)
	require.NotNil(t, got.Level)
	require.Equal(t, catalog.FileName, *got.Level)
}

func TestResolve_S2_SSHConfigDirGlobDeny(t *testing.T) {
	cat := mustCatalog(t)
	got, err := Resolve(home+"/.ssh/config", home, operation.Read, cat, noProbe)
	require.NoError(t, err)
	require.Equal(t, catalog.Deny, got.Verdict)
	require.NotNil(t, got.Level)
	require.Equal(t, catalog.DirGlob, *got.Level)
}

func TestResolve_S3_PubExtensionBeatsDirGlob(t *testing.T) {
	cat := mustCatalog(t)
	got, err := Resolve(home+"/.ssh/authorized_keys.pub", home, operation.Read, cat, noProbe)
	require.NoError(t, err)
	require.Equal(t, catalog.Pass, got.Verdict, "expected FILE_EXTENSION to beat DIR_GLOB: %s", got.Reason)
	require.NotNil(t, got.Level)
	require.Equal(t, catalog.FileExtension, *got.Level)
}

func TestResolve_S4_TrustedDirPassOnRead(t *testing.T) {
	cat := mustCatalog(t)
	got, err := Resolve(home+"/dotfiles/config/nvim/init.lua", home, operation.Read, cat, noProbe)
	require.NoError(t, err)
	require.Equal(t, catalog.Pass, got.Verdict, got.Reason)
}

func TestResolve_S5_TrustedDirIrrelevantOnWrite(t *testing.T) {
	cat := mustCatalog(t)
	got, err := Resolve(home+"/dotfiles/config/nvim/init.lua", home, operation.Write, cat, noProbe)
	require.NoError(t, err)
	require.Equal(t, catalog.Pass, got.Verdict, "expected Pass (no matching deny for Write): %s", got.Reason)
}

func TestResolve_S6_PasswordSubstringInSourceCodeDoesNotDeny(t *testing.T) {
	cat := mustCatalog(t)
	got, err := Resolve(home+"/project/src/auth.py", home, operation.Read, cat, noProbe)
	require.NoError(t, err)
	require.Equal(t, catalog.Pass, got.Verdict, got.Reason)
}

func TestResolve_S7_PasswordSubstringOutsideCodeDenies(t *testing.T) {
	cat := mustCatalog(t)
	got, err := Resolve("/tmp/notes/password_reset.md", home, operation.Read, cat, noProbe)
	require.NoError(t, err)
	require.Equal(t, catalog.Deny, got.Verdict)
	require.NotNil(t, got.Level)
	require.Equal(t, catalog.SecurityDirectory, *got.Level)
}

func TestResolve_S7b_MarkdownExtensionIsCarvedOutAsCode(t *testing.T) {
	// .md is in the baseline code-extension set, so even a path containing
	// "password" in a non-.py/.rs file is carved out when it ends in .md.
	// This sub-case exercises a path that would otherwise match both the
	// generic password rule and the code carve-out, asserting the carve-out
	// wins (spec.md property 7).
	cat := mustCatalog(t)
	got, err := Resolve("/tmp/docs/password_policy.md", home, operation.Read, cat, noProbe)
	require.NoError(t, err)
	require.Equal(t, catalog.Pass, got.Verdict, "expected Pass (code extension carve-out): %s", got.Reason)
}

func TestResolve_S8_CodeExtensionCarveOut(t *testing.T) {
	cat := mustCatalog(t)
	got, err := Resolve("/tmp/src/password_hasher.rs", home, operation.Read, cat, noProbe)
	require.NoError(t, err)
	require.Equal(t, catalog.Pass, got.Verdict, "expected Pass (code extension carve-out): %s", got.Reason)
}

func TestResolve_S9_PermissionsProbeDenies(t *testing.T) {
	cat := mustCatalog(t)
	probe := func(string) (*catalog.Entry, error) {
		return &catalog.Entry{Level: catalog.Permissions, Verdict: catalog.Deny, Description: "restrictive file permissions (mode 0600)"}, nil
	}
	got, err := Resolve("/tmp/secret-file", home, operation.Read, cat, probe)
	require.NoError(t, err)
	require.Equal(t, catalog.Deny, got.Verdict)
	require.NotNil(t, got.Level)
	require.Equal(t, catalog.Permissions, *got.Level)
}

func TestResolve_PermissionsLosesToExtensionPass(t *testing.T) {
	// spec.md §9: "probe first then match" is wrong — a matching
	// FILE_EXTENSION pass (.pub) still wins over a restrictive-mode probe
	// hit, because the probe only ever populates PERMISSIONS, a less
	// specific level.
	cat := mustCatalog(t)
	probe := func(string) (*catalog.Entry, error) {
		return &catalog.Entry{Level: catalog.Permissions, Verdict: catalog.Deny, Description: "restrictive file permissions"}, nil
	}
	got, err := Resolve("/tmp/keys/id.pub", home, operation.Read, cat, probe)
	require.NoError(t, err)
	require.Equal(t, catalog.Pass, got.Verdict, "expected Pass (FILE_EXTENSION beats PERMISSIONS): %s", got.Reason)
}

func TestResolve_NoMatchPasses(t *testing.T) {
	cat := mustCatalog(t)
	got, err := Resolve("/tmp/plain/file.txt", home, operation.Read, cat, noProbe)
	require.NoError(t, err)
	require.Equal(t, catalog.Pass, got.Verdict, got.Reason)
}

func TestResolve_DenyWinsTieAtSameLevel(t *testing.T) {
	entries := []catalog.Entry{
		{RegexSrc: `foo`, Level: catalog.Directory, Verdict: catalog.Pass, Description: "allow foo"},
		{RegexSrc: `/bar/`, Level: catalog.Directory, Verdict: catalog.Deny, Description: "deny bar"},
	}
	cat, err := catalog.New(entries)
	require.NoError(t, err)
	got, err := Resolve("/tmp/foo/bar/baz.txt", home, operation.Read, cat, noProbe)
	require.NoError(t, err)
	require.Equal(t, catalog.Deny, got.Verdict, "expected Deny to win the tie")
}

func TestResolve_Idempotent(t *testing.T) {
	cat := mustCatalog(t)
	first, err := Resolve(home+"/.ssh/id_ed25519", home, operation.Read, cat, noProbe)
	require.NoError(t, err)
	second, err := Resolve(home+"/.ssh/id_ed25519", home, operation.Read, cat, noProbe)
	require.NoError(t, err)
	require.Equal(t, first.Verdict, second.Verdict)
	require.Equal(t, first.Reason, second.Reason)
}
