package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/pomodoro/internal/dirs"
	"github.com/alexander-akhmetov/pomodoro/internal/session"
	"github.com/alexander-akhmetov/pomodoro/internal/timer"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer",
	Long: `Show the state of a timer running in another terminal.

Displays the current phase, whether it is counting, the time left and the
round. Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printStatus(cmd.OutOrStdout(), dirs.SessionPath(), statusJSON, time.Now())
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the session file as JSON")
}

func printStatus(w io.Writer, path string, asJSON bool, now time.Time) error {
	s, raw, err := session.Read(path)
	if errors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(w, "No running pomodoro")
		return nil
	}
	if err != nil {
		return err
	}

	if asJSON {
		_, err := w.Write(session.Pretty(raw))
		return err
	}

	fmt.Fprintln(w, "Running pomodoro:")
	fmt.Fprintf(w, "  Phase:     %s (%s)\n", s.Phase, s.RunState)
	fmt.Fprintf(w, "  Remaining: %s\n", timer.FormatRemaining(s.RemainingAt(now)))
	fmt.Fprintf(w, "  Round:     %d/%d\n", s.Round, s.Rounds)
	fmt.Fprintf(w, "  PID:       %d\n", s.PID)
	return nil
}
