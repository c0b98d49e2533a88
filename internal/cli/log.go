package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pathsentry/pathsentry/internal/audit"
)

var (
	logFilterVerdict string
	logLast          int
	logSummary       bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and filter the audit log",
	Long: `View pathsentry's JSONL audit log with filtering and summary options.

Examples:
  pathsentry log                    # show all entries
  pathsentry log --last 20          # show the last 20 entries
  pathsentry log --verdict deny     # show only denied checks
  pathsentry log --summary          # show pass/deny counts`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&logFilterVerdict, "verdict", "", "Filter by verdict (pass, deny)")
	logCmd.Flags().IntVar(&logLast, "last", 0, "Show only the last N entries")
	logCmd.Flags().BoolVar(&logSummary, "summary", false, "Show summary statistics instead of individual entries")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	events, err := readAuditLog(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("No audit log entries found.")
		return nil
	}

	filtered := filterEvents(events)
	if logLast > 0 && logLast < len(filtered) {
		filtered = filtered[len(filtered)-logLast:]
	}

	if logSummary {
		printLogSummary(events)
		return nil
	}
	printLogEvents(filtered)
	return nil
}

func readAuditLog(path string) ([]audit.Event, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var events []audit.Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var event audit.Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue // skip malformed lines rather than aborting the whole view
		}
		events = append(events, event)
	}
	return events, scanner.Err()
}

func filterEvents(events []audit.Event) []audit.Event {
	if logFilterVerdict == "" {
		return events
	}
	var filtered []audit.Event
	for _, e := range events {
		if strings.EqualFold(e.Verdict, logFilterVerdict) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func printLogEvents(events []audit.Event) {
	for _, e := range events {
		icon := "\xe2\x9c\x85" // check mark
		if strings.EqualFold(e.Verdict, "deny") {
			icon = "\xf0\x9f\x9b\x91" // shield
		}
		fmt.Printf("%s %s %-5s %s\n", icon, formatLogTimestamp(e.Timestamp), e.Operation, e.Path)
		if e.Reason != "" {
			fmt.Printf("     Reason: %s\n", e.Reason)
		}
		if e.Level != "" {
			fmt.Printf("     Level:  %s\n", e.Level)
		}
	}
}

func printLogSummary(all []audit.Event) {
	passCount, denyCount := 0, 0
	for _, e := range all {
		if strings.EqualFold(e.Verdict, "deny") {
			denyCount++
		} else {
			passCount++
		}
	}

	fmt.Println("pathsentry audit summary")
	fmt.Printf("  Total checks: %d\n", len(all))
	fmt.Printf("  Pass:         %d\n", passCount)
	fmt.Printf("  Deny:         %d\n", denyCount)
	if len(all) > 0 {
		fmt.Printf("  First event:  %s\n", formatLogTimestamp(all[0].Timestamp))
		fmt.Printf("  Last event:   %s\n", formatLogTimestamp(all[len(all)-1].Timestamp))
	}
}

func formatLogTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
