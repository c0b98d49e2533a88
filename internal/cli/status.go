package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pathsentry/pathsentry/internal/catalog"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pathsentry's resolved configuration and catalog size",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("pathsentry status")
	fmt.Printf("  Config dir:    %s\n", cfg.ConfigDir)
	fmt.Printf("  Catalog path:  %s (%s)\n", cfg.CatalogPath, existsLabel(cfg.CatalogPath))
	fmt.Printf("  Packs dir:     %s\n", cfg.PacksDir)
	fmt.Printf("  Audit log:     %s (%s)\n", cfg.LogPath, existsLabel(cfg.LogPath))
	fmt.Printf("  Mode:          %s\n", cfg.Mode)

	base, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("failed to build default catalog: %w", err)
	}
	merged, warnings, err := catalog.LoadPacks(cfg.PacksDir, base)
	if err != nil {
		return fmt.Errorf("failed to load packs: %w", err)
	}
	fmt.Printf("  Catalog entries: %d (baseline %d)\n", len(merged.Entries()), len(base.Entries()))
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return nil
}

func existsLabel(path string) string {
	if _, err := os.Stat(path); err != nil {
		return "not present, using built-in defaults"
	}
	return "present"
}
