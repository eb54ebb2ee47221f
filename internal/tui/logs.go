package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/pomodoro/internal/dirs"
	"github.com/alexander-akhmetov/pomodoro/internal/progress"
	"github.com/alexander-akhmetov/pomodoro/internal/session"
)

var (
	logsLast   bool
	logsRecent int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show session logs",
	Long: `List session log files, newest first.

Each run of the timer writes a log of starts, pauses, completed blocks and
notifications to the state directory.

Options:
  --last       Print the most recent log
  --recent N   Number of log files to list (default: 10)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		activeRun := ""
		if s, _, err := session.Read(dirs.SessionPath()); err == nil {
			activeRun = s.RunID
		}
		if logsLast {
			return showLatestLog(cmd.OutOrStdout(), dirs.LogsDir())
		}
		return listLogs(cmd.OutOrStdout(), dirs.LogsDir(), activeRun, logsRecent)
	},
}

func init() {
	logsCmd.Flags().BoolVar(&logsLast, "last", false, "Print the most recent log")
	logsCmd.Flags().IntVar(&logsRecent, "recent", 10, "Number of recent logs to show")
}

func listLogs(w io.Writer, logsDir, activeRun string, recent int) error {
	logs, err := progress.FindLogs(logsDir)
	if err != nil {
		return fmt.Errorf("failed to find logs: %w", err)
	}

	if len(logs) == 0 {
		fmt.Fprintln(w, "No log files found.")
		fmt.Fprintf(w, "Log directory: %s\n", logsDir)
		return nil
	}

	fmt.Fprintf(w, "Recent log files (showing %d):\n", min(recent, len(logs)))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for i, lf := range logs {
		if i >= recent {
			break
		}
		status := ""
		if activeRun != "" && lf.MatchesRun(activeRun) {
			status = " [ACTIVE]"
		}
		fmt.Fprintf(w, "  %s%s\n", lf.Timestamp.Format("2006-01-02 15:04:05"), status)
		fmt.Fprintf(w, "    %s\n", lf.Path)
	}
	return nil
}

func showLatestLog(w io.Writer, logsDir string) error {
	lf, err := progress.FindLatestLog(logsDir)
	if err != nil {
		return fmt.Errorf("failed to find logs: %w", err)
	}
	if lf == nil {
		fmt.Fprintln(w, "No log files found.")
		return nil
	}

	data, err := os.ReadFile(lf.Path)
	if err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}
	_, err = w.Write(data)
	return err
}
