package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/pomodoro/internal/config"
)

var configShowDiff bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pomodoro configuration",
	Long:  `View and manage pomodoro configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved configuration with source annotations",
	Long: `Show the fully resolved configuration with annotations indicating
where each value came from.

Configuration is loaded from multiple sources with the following precedence:
  1. Embedded defaults (built into binary)
  2. Global config (~/.config/pomodoro/config.yaml)
  3. Environment variables (POMODORO_*)
  4. Local config (.pomodoro/config.yaml)
  5. CLI flags (highest precedence)

With --diff, print a unified diff between the defaults and the resolved
configuration instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if configShowDiff {
			return printConfigDiff(cmd.OutOrStdout(), cfg)
		}
		return printConfig(cmd.OutOrStdout(), cfg)
	},
}

var configSoundsCmd = &cobra.Command{
	Use:   "sounds",
	Short: "List notification sound names",
	Long: `List the sound names accepted by sounds.end_of_focus and
sounds.end_of_relax. Either the name or its index may be used in the config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		printSounds(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowDiff, "diff", false, "Show changes against the built-in defaults")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSoundsCmd)
}

func printConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, "# Pomodoro Configuration")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "## Sources (in order of precedence)")
	for _, src := range cfg.Sources() {
		fmt.Fprintf(w, "  - %s\n", src)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Directories")
	fmt.Fprintf(w, "  Global config: %s\n", cfg.ConfigDir())
	if cfg.LocalDir() != "" {
		fmt.Fprintf(w, "  Local config:  %s\n", cfg.LocalDir())
	} else {
		fmt.Fprintf(w, "  Local config:  (none detected)\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Rounds")
	for i, r := range cfg.Rounds {
		fmt.Fprintf(w, "  %d. focus %s, relax %s\n", i+1, r.Focus, r.Relax)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Settings")
	fmt.Fprintf(w, "  poll_interval: %s\n", cfg.PollInterval)
	fmt.Fprintf(w, "  notifications: %t\n", cfg.Notifications)
	if cfg.Language != "" {
		fmt.Fprintf(w, "  language:      %s\n", cfg.Language)
	} else {
		fmt.Fprintf(w, "  language:      (from environment)\n")
	}
	fmt.Fprintf(w, "  history:       %t\n", cfg.History)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Sounds")
	fmt.Fprintf(w, "  end_of_focus: %s\n", cfg.Sounds.EndOfFocus)
	fmt.Fprintf(w, "  end_of_relax: %s\n", cfg.Sounds.EndOfRelax)
	return nil
}

func printConfigDiff(w io.Writer, cfg *config.Config) error {
	defaults, err := config.LoadEmbedded()
	if err != nil {
		return err
	}
	before, err := defaults.Marshal()
	if err != nil {
		return err
	}
	after, err := cfg.Marshal()
	if err != nil {
		return err
	}

	diff := udiff.Unified("defaults", "resolved", string(before), string(after))
	if diff == "" {
		fmt.Fprintln(w, "Configuration matches the defaults")
		return nil
	}
	for line := range strings.SplitSeq(strings.TrimRight(diff, "\n"), "\n") {
		fmt.Fprintln(w, colorizeDiffLine(line))
	}
	return nil
}

func colorizeDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return line
	case strings.HasPrefix(line, "+"):
		return diffAddStyle.Render(line)
	case strings.HasPrefix(line, "-"):
		return diffDelStyle.Render(line)
	case strings.HasPrefix(line, "@@"):
		return diffHunkStyle.Render(line)
	default:
		return line
	}
}

func printSounds(w io.Writer) {
	for i, name := range config.SoundNames {
		fmt.Fprintf(w, "%2d  %s\n", i, name)
	}
}
