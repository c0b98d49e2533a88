package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pathsentry/pathsentry/internal/catalog"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Manage pattern packs",
	Long: `Pattern packs are curated YAML catalog files targeting specific
sensitive-path domains, stored in ~/.pathsentry/packs/ and merged with the
base catalog at filter construction time.

Examples:
  pathsentry pack list                   # list installed packs
  pathsentry pack enable terminal-safety  # enable a pack
  pathsentry pack disable supply-chain    # disable a pack
  pathsentry pack show terminal-safety    # print a pack's raw YAML`,
}

var packListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed pattern packs",
	RunE:  runPackList,
}

var packEnableCmd = &cobra.Command{
	Use:   "enable <pack-name>",
	Short: "Enable a disabled pattern pack",
	Args:  cobra.ExactArgs(1),
	RunE:  runPackEnable,
}

var packDisableCmd = &cobra.Command{
	Use:   "disable <pack-name>",
	Short: "Disable a pattern pack (prefixes its file with _)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPackDisable,
}

var packShowCmd = &cobra.Command{
	Use:   "show <pack-name>",
	Short: "Print the raw YAML of an installed pattern pack",
	Args:  cobra.ExactArgs(1),
	RunE:  runPackShow,
}

func init() {
	packCmd.AddCommand(packListCmd)
	packCmd.AddCommand(packEnableCmd)
	packCmd.AddCommand(packDisableCmd)
	packCmd.AddCommand(packShowCmd)
	rootCmd.AddCommand(packCmd)
}

func resolvePacksDir() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.PacksDir, nil
}

func runPackList(cmd *cobra.Command, args []string) error {
	dir, err := resolvePacksDir()
	if err != nil {
		return err
	}

	base, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("failed to build default catalog: %w", err)
	}
	_, warnings, err := catalog.LoadPacks(dir, base)
	if err != nil {
		return fmt.Errorf("failed to load packs: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read packs dir: %w", err)
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() || !isYAMLName(e.Name()) {
			continue
		}
		count++
		status := "enabled "
		if strings.HasPrefix(e.Name(), "_") {
			status = "disabled"
		}
		fmt.Printf("  %s  %s\n", status, e.Name())
	}

	if count == 0 {
		fmt.Println("No pattern packs installed.")
		fmt.Printf("\nTo install packs, copy catalog YAML files to: %s\n", dir)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return nil
}

func runPackEnable(cmd *cobra.Command, args []string) error {
	dir, err := resolvePacksDir()
	if err != nil {
		return err
	}

	name := args[0]
	disabledPath := filepath.Join(dir, "_"+name+".yaml")
	enabledPath := filepath.Join(dir, name+".yaml")

	if _, err := os.Stat(disabledPath); err == nil {
		if err := os.Rename(disabledPath, enabledPath); err != nil {
			return fmt.Errorf("failed to enable pack: %w", err)
		}
		fmt.Printf("Pack %q enabled.\n", name)
		return nil
	}
	if _, err := os.Stat(enabledPath); err == nil {
		fmt.Printf("Pack %q is already enabled.\n", name)
		return nil
	}
	return fmt.Errorf("pack %q not found in %s", name, dir)
}

func runPackDisable(cmd *cobra.Command, args []string) error {
	dir, err := resolvePacksDir()
	if err != nil {
		return err
	}

	name := args[0]
	enabledPath := filepath.Join(dir, name+".yaml")
	disabledPath := filepath.Join(dir, "_"+name+".yaml")

	if _, err := os.Stat(enabledPath); err == nil {
		if err := os.Rename(enabledPath, disabledPath); err != nil {
			return fmt.Errorf("failed to disable pack: %w", err)
		}
		fmt.Printf("Pack %q disabled.\n", name)
		return nil
	}
	if _, err := os.Stat(disabledPath); err == nil {
		fmt.Printf("Pack %q is already disabled.\n", name)
		return nil
	}
	return fmt.Errorf("pack %q not found in %s", name, dir)
}

func runPackShow(cmd *cobra.Command, args []string) error {
	dir, err := resolvePacksDir()
	if err != nil {
		return err
	}

	name := args[0]
	path := filepath.Join(dir, name+".yaml")
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(dir, "_"+name+".yaml")
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("pack %q not found in %s", name, dir)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func isYAMLName(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
