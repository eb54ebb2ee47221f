package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/pomodoro/internal/debug"
	"github.com/alexander-akhmetov/pomodoro/internal/i18n"
	"github.com/alexander-akhmetov/pomodoro/internal/notify"
)

const repositoryURL = "https://github.com/alexander-akhmetov/pomodoro"

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show version and project information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tr, err := i18n.New(aboutLanguage())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(aboutMarkdown(tr), 80))
		return nil
	},
}

// aboutLanguage resolves the message language the way start does: --lang,
// then local and global config, then the environment.
func aboutLanguage() string {
	cfg, err := loadConfig()
	if err != nil {
		debug.Logf("tui: about: %v", err)
		return overrides.Language
	}
	return cfg.Language
}

func aboutMarkdown(tr notify.Translator) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", tr.T("app-title"))
	fmt.Fprintf(&b, "**%s:** %s (%s, %s)\n\n", tr.T("app-version"), version, commit, date)
	b.WriteString("A focus timer for the terminal: focus and relax blocks in rounds, ")
	b.WriteString("with desktop notifications when a block runs out.\n\n")
	fmt.Fprintf(&b, "[%s](%s)\n", strings.TrimPrefix(repositoryURL, "https://"), repositoryURL)
	return b.String()
}

// renderMarkdown renders md for the terminal, falling back to the source.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		debug.Logf("tui: failed to create glamour renderer: %v", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		debug.Logf("tui: render markdown: %v", err)
		return md
	}
	return out
}
