package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pathsentry/pathsentry/internal/catalog"
	"github.com/pathsentry/pathsentry/internal/decision"
	"github.com/pathsentry/pathsentry/internal/operation"
	"github.com/pathsentry/pathsentry/internal/shellwords"
)

// hookInput is the stdin envelope spec.md §6 defines for Claude Code, plus
// the Cursor/Windsurf envelope shapes recognized as an ambient convenience
// (see SPEC_FULL.md's C6 note) — only the Claude Code path is exercised
// against this filter's Operation table.
type hookInput struct {
	HookEventName string          `json:"hook_event_name"`
	ToolName      string          `json:"tool_name"`
	ToolInput     claudeToolInput `json:"tool_input"`

	// Cursor
	Command string `json:"command"`
	Cwd     string `json:"cwd"`

	// Windsurf
	AgentActionName string   `json:"agent_action_name"`
	ToolInfo        toolInfo `json:"tool_info"`
}

type claudeToolInput struct {
	FilePath string `json:"file_path"`
	Path     string `json:"path"`
	Command  string `json:"command"`
}

type toolInfo struct {
	CommandLine string `json:"command_line"`
	Cwd         string `json:"cwd"`
}

type cursorHookOutput struct {
	Continue    bool   `json:"continue"`
	Permission  string `json:"permission"`
	UserMessage string `json:"user_message,omitempty"`
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Read one JSON tool-call envelope from stdin and decide pass/deny",
	Long: `Reads a single JSON object describing one tool call, extracts the
candidate paths for that tool, evaluates them against the catalog, and
exits 0 (allow), 2 (deny, reason on stderr), or 1 (on any internal error —
still deny from the host's point of view, per spec.md's fail-closed
invariant; unlike the upstream hook this implementation never falls back to
"allow the action" on a parse or config failure).`,
	RunE: runHook,
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

func runHook(cmd *cobra.Command, args []string) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Blocked by internal error: failed to read stdin: %v\n", err)
		os.Exit(2)
	}

	var input hookInput
	if err := json.Unmarshal(data, &input); err != nil {
		fmt.Fprintf(os.Stderr, "Blocked by internal error: malformed hook input: %v\n", err)
		os.Exit(2)
	}

	bundle, err := buildFilter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Blocked by internal error: %v\n", err)
		os.Exit(2)
	}
	defer bundle.Close()

	switch {
	case input.HookEventName != "":
		handleClaudeCodeHook(bundle, input)
	case input.Command != "":
		handleCursorHook(bundle, input)
	case input.AgentActionName == "pre_run_command":
		handleWindsurfHook(bundle, input)
	default:
		// Unrecognized envelope shape: nothing to check, allow.
	}
	return nil
}

func handleClaudeCodeHook(bundle *filterBundle, input hookInput) {
	op, ok := operation.Parse(input.ToolName)
	if !ok {
		return
	}

	paths := candidatePaths(op, input.ToolInput)
	if len(paths) == 0 {
		return
	}

	batch := bundle.filter.CheckMany(op, paths, "")
	for i, p := range paths {
		bundle.logDecision(op, p, batch.Results[i].Decision, "claude-code-hook")
	}

	if batch.Denied {
		for _, r := range batch.Results {
			if r.Decision.Verdict == catalog.Deny {
				fmt.Fprintf(os.Stderr, "Blocked by %s: %s\n", matchSource(r.Decision), r.Decision.Reason)
			}
		}
		os.Exit(2)
	}
}

func handleCursorHook(bundle *filterBundle, input hookInput) {
	op := operation.Bash
	paths := shellwords.ExtractPathCandidates(input.Command)
	if len(paths) == 0 {
		outputCursorAllow()
		return
	}

	batch := bundle.filter.CheckMany(op, paths, input.Cwd)
	for i, p := range paths {
		bundle.logDecision(op, p, batch.Results[i].Decision, "cursor-hook")
	}

	if batch.Denied {
		var reasons string
		for _, r := range batch.Results {
			if r.Decision.Verdict == catalog.Deny {
				reasons = r.Decision.Reason
				break
			}
		}
		data, _ := json.Marshal(cursorHookOutput{Continue: true, Permission: "deny", UserMessage: reasons})
		fmt.Println(string(data))
		return
	}
	outputCursorAllow()
}

func outputCursorAllow() {
	data, _ := json.Marshal(cursorHookOutput{Continue: true, Permission: "allow"})
	fmt.Println(string(data))
}

func handleWindsurfHook(bundle *filterBundle, input hookInput) {
	op := operation.Bash
	paths := shellwords.ExtractPathCandidates(input.ToolInfo.CommandLine)
	if len(paths) == 0 {
		return
	}

	batch := bundle.filter.CheckMany(op, paths, input.ToolInfo.Cwd)
	for i, p := range paths {
		bundle.logDecision(op, p, batch.Results[i].Decision, "windsurf-hook")
	}

	if batch.Denied {
		for _, r := range batch.Results {
			if r.Decision.Verdict == catalog.Deny {
				fmt.Fprintf(os.Stderr, "Blocked by %s: %s\n", matchSource(r.Decision), r.Decision.Reason)
			}
		}
		os.Exit(2)
	}
}

// candidatePaths extracts the per-operation candidate path list from a
// Claude Code tool_input, per spec.md §4.6's table.
func candidatePaths(op operation.Operation, input claudeToolInput) []string {
	switch op {
	case operation.Read, operation.Write, operation.Edit:
		if input.FilePath == "" {
			return nil
		}
		return []string{input.FilePath}
	case operation.Glob, operation.Grep:
		if input.Path == "" {
			return nil
		}
		return []string{input.Path}
	case operation.Bash:
		return shellwords.ExtractPathCandidates(input.Command)
	default:
		return nil
	}
}

// matchSource renders the "<pattern-or-probe>" half of spec.md §6's stderr
// format: the matched entry's lattice level name, or "permission probe"
// when the decision came from the synthetic PERMISSIONS check rather than
// a catalog entry, or "internal error" when there's no level at all
// (a facade-level failure).
func matchSource(d decision.Decision) string {
	if d.Level == nil {
		return "internal error"
	}
	if *d.Level == catalog.Permissions && d.Matched == nil {
		return "permission probe"
	}
	return d.Level.String()
}
