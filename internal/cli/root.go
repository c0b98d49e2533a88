// Package cli wires pathsentry's cobra commands: check, hook, serve, pack,
// version.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	catalogPath string
	packsDirFlag string
	logPath     string
	mode        string
)

var rootCmd = &cobra.Command{
	Use:   "pathsentry",
	Short: "pathsentry - path-access security filter for AI coding agents",
	Long: `pathsentry sits between an AI coding agent and its file tools, classifying
every path an agent's Read/Write/Edit/Glob/Grep/Bash call would touch
against a specificity-lattice catalog and deciding pass or deny before the
tool call runs.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Path to catalog YAML file (default: ~/.pathsentry/catalog.yaml)")
	rootCmd.PersistentFlags().StringVar(&packsDirFlag, "packs", "", "Path to packs directory (default: ~/.pathsentry/packs)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Path to audit log file (default: ~/.pathsentry/audit.jsonl)")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "enforce", "Execution mode: enforce or audit")
}

// Execute runs the root command; cmd/pathsentry's main calls this directly.
func Execute() error {
	return rootCmd.Execute()
}

// buildFilter constructs the shared Filter from the resolved persistent
// flags, used by every subcommand that needs to evaluate a path.
func buildFilter() (*filterBundle, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newFilterBundle(cfg)
}
