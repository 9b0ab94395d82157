package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codemend/codemend/internal/loop"
	"github.com/codemend/codemend/internal/state"
)

func newLogsCmd() *cobra.Command {
	var attemptID string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show attempt logs",
		Long:  "Display attempt logs. Use --attempt to show a specific attempt, or list all recorded attempts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogs(cmd, attemptID)
		},
	}

	cmd.Flags().StringVar(&attemptID, "attempt", "", "Show specific attempt log by ID")

	return cmd
}

func runLogs(cmd *cobra.Command, attemptID string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	logsDir := state.LogsDirPath(workDir)

	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No logs found. Run 'codemend \"task\"' to record attempts.\n")
		return nil
	}

	if attemptID != "" {
		return showAttempt(cmd, logsDir, attemptID)
	}

	return listAttempts(cmd, logsDir)
}

func showAttempt(cmd *cobra.Command, logsDir, attemptID string) error {
	filename := fmt.Sprintf("attempt-%s.json", attemptID)
	path := filepath.Join(logsDir, filename)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("attempt %q not found", attemptID)
	}

	record, err := loop.LoadRecord(path)
	if err != nil {
		return fmt.Errorf("failed to load attempt: %w", err)
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), formatAttemptRecord(record))

	return nil
}

func listAttempts(cmd *cobra.Command, logsDir string) error {
	records, err := loop.LoadRecords(logsDir)
	if err != nil {
		return fmt.Errorf("failed to read logs directory: %w", err)
	}

	if len(records) == 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No attempts found.\n")
		return nil
	}

	// Newest first
	sort.Slice(records, func(i, j int) bool {
		return records[i].StartTime.After(records[j].StartTime)
	})

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recorded attempts:\n\n")
	for _, record := range records {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s - #%d %s (%s) - %s\n",
			record.AttemptID,
			record.Index+1,
			record.Task,
			record.Outcome,
			record.StartTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nUse --attempt <id> to view details.\n")

	return nil
}

func formatAttemptRecord(record *loop.AttemptRecord) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Attempt: %s\n", record.AttemptID)
	fmt.Fprintf(&sb, "Task: %s\n", record.Task)
	fmt.Fprintf(&sb, "Index: %d\n", record.Index)
	fmt.Fprintf(&sb, "Mode: %s\n", record.Mode)
	fmt.Fprintf(&sb, "Outcome: %s\n", record.Outcome)
	fmt.Fprintf(&sb, "Duration: %s\n", record.Duration())
	fmt.Fprintf(&sb, "\n")

	fmt.Fprintf(&sb, "Start: %s\n", record.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "End: %s\n", record.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Exit code: %d\n", record.ExitCode)
	fmt.Fprintf(&sb, "\n")

	if record.Classification != nil {
		fmt.Fprintf(&sb, "Classification: %s\n", record.Classification.Kind)
		if record.Classification.Package != "" {
			fmt.Fprintf(&sb, "Package: %s\n", record.Classification.Package)
		}
		fmt.Fprintf(&sb, "\n")
	}

	if record.InstalledPackage != "" {
		status := "failed"
		if record.InstallSucceeded {
			status = "succeeded"
		}
		fmt.Fprintf(&sb, "Install: %s (%s)\n\n", record.InstalledPackage, status)
	}

	if record.Diagnostic != "" {
		fmt.Fprintf(&sb, "Diagnostic:\n%s\n\n", record.Diagnostic)
	}

	fmt.Fprintf(&sb, "---\n")
	fmt.Fprintf(&sb, "To view raw JSON, use: cat %s\n", fmt.Sprintf(".codemend/logs/attempt-%s.json", record.AttemptID))

	return sb.String()
}
