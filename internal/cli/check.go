package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pathsentry/pathsentry/internal/catalog"
	"github.com/pathsentry/pathsentry/internal/decision"
	"github.com/pathsentry/pathsentry/internal/operation"
)

var (
	checkOp      string
	checkBaseDir string
)

var checkCmd = &cobra.Command{
	Use:   "check PATH",
	Short: "Evaluate a single path against the catalog and print the decision",
	Long: `Canonicalizes PATH, resolves it against the catalog, and prints
Decision: pass|deny
Reason: ...
exiting 0 on pass, 2 on deny (spec.md §6's one-shot CLI contract).`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkOp, "op", "Read", "Operation: Read, Write, Edit, Glob, Grep, Bash")
	checkCmd.Flags().StringVar(&checkBaseDir, "base-dir", "", "Base directory for resolving a relative PATH")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	op, ok := operation.Parse(checkOp)
	if !ok {
		return fmt.Errorf("unknown operation %q", checkOp)
	}

	bundle, err := buildFilter()
	if err != nil {
		return err
	}
	defer bundle.Close()

	d := bundle.checkAndLog(op, args[0], checkBaseDir, "cli-check")

	printDecision(d)
	if d.Verdict == catalog.Deny {
		os.Exit(2)
	}
	return nil
}

// printDecision renders a Decision the way spec.md §6 specifies for the
// one-shot CLI, colorizing pass/deny only when stdout is a real terminal.
func printDecision(d decision.Decision) {
	verdict := strings.ToLower(string(d.Verdict))
	if term.IsTerminal(int(os.Stdout.Fd())) {
		color := "\x1b[32m" // green
		if d.Verdict == catalog.Deny {
			color = "\x1b[31m" // red
		}
		verdict = color + verdict + "\x1b[0m"
	}
	fmt.Printf("Decision: %s\n", verdict)
	fmt.Printf("Reason: %s\n", d.Reason)
}
