package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

var setupDisableFlag bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install or remove IDE hook integrations",
}

var setupClaudeCodeCmd = &cobra.Command{
	Use:   "claude-code",
	Short: "Install or remove the Claude Code PreToolUse hook",
	Long: `Installs (or, with --disable, removes) the PreToolUse hook entry in
~/.claude/settings.json so every tool call Claude Code is about to make is
evaluated by "pathsentry hook" first.

  pathsentry setup claude-code             # enable hook
  pathsentry setup claude-code --disable   # disable hook`,
	RunE: runSetupClaudeCode,
}

func init() {
	setupClaudeCodeCmd.Flags().BoolVar(&setupDisableFlag, "disable", false, "Remove the pathsentry hook entry instead of installing it")
	setupCmd.AddCommand(setupClaudeCodeCmd)
	rootCmd.AddCommand(setupCmd)
}

// pathsentryHookEntry is the hook object inserted into Claude Code's
// settings.json. Claude Code fires PreToolUse for every tool call, not only
// Bash, which matches spec.md §4.6's full per-tool dispatch table rather
// than the teacher's Bash-only matcher.
var pathsentryHookEntry = map[string]interface{}{
	"matcher": "*",
	"hooks": []interface{}{
		map[string]interface{}{
			"type":    "command",
			"command": "pathsentry hook",
		},
	},
}

func runSetupClaudeCode(cmd *cobra.Command, args []string) error {
	settingsPath := filepath.Join(os.Getenv("HOME"), ".claude", "settings.json")

	if setupDisableFlag {
		return disableClaudeCodeHook(settingsPath)
	}

	if binPath, err := exec.LookPath("pathsentry"); err == nil {
		fmt.Printf("pathsentry found: %s\n", binPath)
	} else {
		fmt.Println("warning: pathsentry not found in PATH — installing the hook anyway, but Claude Code won't be able to run it until it is.")
	}

	settings, err := readClaudeSettings(settingsPath)
	if err != nil {
		return err
	}

	hooks := getOrCreateMap(settings, "hooks")
	preToolUse := getOrCreateSlice(hooks, "PreToolUse")

	for _, entry := range preToolUse {
		if isPathsentryHookEntry(entry) {
			fmt.Printf("Claude Code hook already configured: %s\n", settingsPath)
			return nil
		}
	}

	hooks["PreToolUse"] = append(preToolUse, pathsentryHookEntry)
	settings["hooks"] = hooks

	if err := writeClaudeSettings(settingsPath, settings); err != nil {
		return err
	}

	fmt.Printf("PreToolUse hook installed: %s\n", settingsPath)
	fmt.Println("Disable with: pathsentry setup claude-code --disable")
	return nil
}

func disableClaudeCodeHook(settingsPath string) error {
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		fmt.Println("No settings.json found for Claude Code — nothing to disable.")
		return nil
	}

	settings, err := readClaudeSettings(settingsPath)
	if err != nil {
		return err
	}

	hooks, ok := settings["hooks"].(map[string]interface{})
	if !ok {
		fmt.Println("Claude Code settings.json has no hooks — nothing to disable.")
		return nil
	}

	preToolUse, _ := hooks["PreToolUse"].([]interface{})
	filtered := preToolUse[:0]
	removed := false
	for _, entry := range preToolUse {
		if isPathsentryHookEntry(entry) {
			removed = true
			continue
		}
		filtered = append(filtered, entry)
	}

	if !removed {
		fmt.Println("pathsentry hook not found in Claude Code settings — nothing to disable.")
		return nil
	}

	if len(filtered) == 0 {
		delete(hooks, "PreToolUse")
	} else {
		hooks["PreToolUse"] = filtered
	}
	if len(hooks) == 0 {
		delete(settings, "hooks")
	} else {
		settings["hooks"] = hooks
	}

	if err := writeClaudeSettings(settingsPath, settings); err != nil {
		return err
	}

	fmt.Printf("pathsentry hook disabled for Claude Code: %s\n", settingsPath)
	fmt.Println("Re-enable anytime with: pathsentry setup claude-code")
	return nil
}

func isPathsentryHookEntry(entry interface{}) bool {
	m, ok := entry.(map[string]interface{})
	if !ok {
		return false
	}
	subHooks, _ := m["hooks"].([]interface{})
	for _, h := range subHooks {
		if hm, ok := h.(map[string]interface{}); ok {
			if hm["command"] == "pathsentry hook" {
				return true
			}
		}
	}
	return false
}

func readClaudeSettings(path string) (map[string]interface{}, error) {
	settings := make(map[string]interface{})
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return settings, nil
}

func writeClaudeSettings(path string, settings map[string]interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	out, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func getOrCreateMap(parent map[string]interface{}, key string) map[string]interface{} {
	if v, ok := parent[key].(map[string]interface{}); ok {
		return v
	}
	m := make(map[string]interface{})
	parent[key] = m
	return m
}

func getOrCreateSlice(parent map[string]interface{}, key string) []interface{} {
	if v, ok := parent[key].([]interface{}); ok {
		return v
	}
	return nil
}
