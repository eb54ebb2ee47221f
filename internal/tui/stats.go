package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/pomodoro/internal/dirs"
	"github.com/alexander-akhmetov/pomodoro/internal/history"
)

var statsRecent int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show today's completed blocks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printStats(cmd.Context(), cmd.OutOrStdout(), dirs.HistoryPath(), statsRecent)
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsRecent, "recent", 0, "Also list the last N blocks")
}

func printStats(ctx context.Context, w io.Writer, path string, recent int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(w, "No history yet")
		return nil
	}

	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	st, err := store.Today(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Today:")
	fmt.Fprintf(w, "  Focus: %d blocks, %s\n", st.FocusBlocks, formatMinutes(st.FocusTime))
	fmt.Fprintf(w, "  Relax: %d blocks, %s\n", st.RelaxBlocks, formatMinutes(st.RelaxTime))

	if recent <= 0 {
		return nil
	}
	blocks, err := store.Recent(ctx, recent)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent:")
	for _, b := range blocks {
		fmt.Fprintf(w, "  %s  %-5s round %d  %s\n",
			b.CompletedAt.Local().Format("2006-01-02 15:04"), b.Phase, b.Round, formatMinutes(b.Duration))
	}
	return nil
}

func formatMinutes(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d - h*time.Hour) / time.Minute
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
