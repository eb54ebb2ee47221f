package tui

import (
	"fmt"
	"strings"

	"github.com/alexander-akhmetov/pomodoro/internal/timer"
)

// headingKey returns the message key shown above the clock.
func headingKey(p timer.Phase) string {
	switch p {
	case timer.PhaseFocus:
		return "focus-running"
	case timer.PhaseBeforeRelax:
		return "before-relax"
	case timer.PhaseRelax:
		return "relax-running"
	default:
		return "before-focus"
	}
}

func (m Model) View() string {
	s := m.ctrl.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("🍅 " + m.tr.T("app-title")))
	b.WriteString("\n")

	heading := phaseStyle.Render(m.tr.T(headingKey(s.Phase)))
	b.WriteString(m.stateIndicator(s.RunState))
	b.WriteString(" ")
	b.WriteString(heading)
	if s.RunState == timer.Paused {
		b.WriteString(" ")
		b.WriteString(pausedStyle.Render("(" + m.tr.T("paused") + ")"))
	}
	b.WriteString("\n\n")

	b.WriteString(clockStyle.Render(timer.FormatRemaining(s.Remaining)))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%s %d/%d", m.tr.T("round"), s.Position+1, s.Rounds)))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(s.Progress()))

	out := timerBoxStyle.Render(b.String())

	if m.notice != nil {
		out += "\n" + noticeStyle.Render(m.renderNotice(*m.notice))
	}
	if m.err != nil {
		out += "\n" + errorStyle.Render(m.err.Error())
	}
	return out + "\n" + helpStyle.Render(m.help.View(m.keys))
}

func (m Model) stateIndicator(rs timer.RunState) string {
	switch rs {
	case timer.Running:
		return runningStyle.Render("▶")
	case timer.Paused:
		return pausedStyle.Render("⏸")
	default:
		return stoppedStyle.Render("■")
	}
}

func (m Model) renderNotice(n timer.Notification) string {
	text := m.tr.T(n.TitleKey)
	if n.BodyKey != "" {
		text += " " + valueStyle.Render(m.tr.T(n.BodyKey))
	}
	return text
}
