package tui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Version information set from main.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

var rootCmd = &cobra.Command{
	Use:   "pomodoro",
	Short: "Terminal pomodoro timer",
	Long: `Pomodoro alternates focus and relax blocks in the terminal and sends a
desktop notification when a block runs out.

Running pomodoro without a subcommand is the same as "pomodoro start".`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runStart,
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the CLI with ctx available to commands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	addStartFlags(rootCmd)
	aboutCmd.Flags().StringVar(&overrides.Language, "lang", "", "Message language (en, de)")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(aboutCmd)
}
