package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pathsentry/pathsentry/internal/catalog"
	"github.com/pathsentry/pathsentry/internal/operation"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Verify the catalog blocks known-sensitive paths and passes ordinary ones",
	Long: `Runs a quick diagnostic against a temporary scratch directory: checks
that known-sensitive paths (SSH keys, cloud credentials, secrets
directories) are denied and that ordinary source files are passed.
Nothing is read or written outside the scratch directory this command
creates.`,
	RunE: runSelftest,
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}

type selftestCase struct {
	label       string
	relPath     string
	op          operation.Operation
	wantVerdict catalog.Verdict
}

func runSelftest(cmd *cobra.Command, args []string) error {
	bundle, err := buildFilter()
	if err != nil {
		return fmt.Errorf("failed to build filter: %w", err)
	}
	defer bundle.Close()

	scratch, err := os.MkdirTemp("", "pathsentry-selftest-")
	if err != nil {
		return fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	cases := []selftestCase{
		{"SSH private key", ".ssh/id_ed25519", operation.Read, catalog.Deny},
		{"AWS credentials", ".aws/credentials", operation.Read, catalog.Deny},
		{"secrets directory file", ".secrets/api-token", operation.Read, catalog.Deny},
		{"env file", ".env", operation.Read, catalog.Deny},
		{"ordinary source file", "main.go", operation.Read, catalog.Pass},
		{"ordinary write", "main.go", operation.Write, catalog.Pass},
	}

	fmt.Println("pathsentry selftest")
	fmt.Println()

	passed := 0
	for _, tc := range cases {
		full := filepath.Join(scratch, tc.relPath)
		if err := os.MkdirAll(filepath.Dir(full), 0o700); err != nil {
			return fmt.Errorf("failed to prepare scratch path: %w", err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o600); err != nil {
			return fmt.Errorf("failed to prepare scratch file: %w", err)
		}

		d := bundle.filter.Check(tc.op, full, "")
		ok := d.Verdict == tc.wantVerdict

		icon := "\xe2\x9c\x85"
		if !ok {
			icon = "\xe2\x9d\x8c"
		} else {
			passed++
		}
		fmt.Printf("  %s  %-22s  %s %s → %s\n", icon, tc.label, tc.op, tc.relPath, d.Verdict)
	}

	fmt.Println()
	if passed == len(cases) {
		fmt.Printf("All %d checks passed — the catalog is behaving as expected.\n", len(cases))
		return nil
	}

	return fmt.Errorf("%d/%d selftest checks passed", passed, len(cases))
}
