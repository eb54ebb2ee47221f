package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexander-akhmetov/pomodoro/internal/debug"
	"github.com/alexander-akhmetov/pomodoro/internal/notify"
	"github.com/alexander-akhmetov/pomodoro/internal/timer"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), m.watchCmd())
}

// pollCmd schedules the next check of the current polling chain.
func (m Model) pollCmd() tea.Cmd {
	id := m.pollID
	return tea.Tick(m.pollInterval, func(time.Time) tea.Msg {
		return pollMsg{id: id}
	})
}

// restartPolling starts a new polling chain, orphaning pending ticks.
func (m *Model) restartPolling() tea.Cmd {
	m.pollID++
	if m.ctrl.RunState() != timer.Running {
		return nil
	}
	return m.pollCmd()
}

func (m Model) notifyCmd(n timer.Notification) tea.Cmd {
	if !m.notifications {
		return func() tea.Msg { return notifiedMsg{n: n} }
	}
	notifier, tr, ctx := m.notifier, m.tr, m.ctx
	return func() tea.Msg {
		err := notifier.Notify(ctx, notify.Build(n, tr))
		return notifiedMsg{n: n, err: err}
	}
}

func (m Model) watchCmd() tea.Cmd {
	if m.changes == nil || m.reload == nil {
		return nil
	}
	changes, reload, ctx := m.changes, m.reload, m.ctx
	return func() tea.Msg {
		if _, err := changes.Next(ctx); err != nil {
			return watchErrMsg{err: err}
		}
		s, err := reload()
		if err != nil {
			debug.Logf("tui: reload settings: %v", err)
			return settingsMsg{err: err}
		}
		return settingsMsg{settings: s}
	}
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		m.err = nil
		if err := m.ctrl.Toggle(); err != nil {
			m.err = err
			return m, nil
		}
		if m.ctrl.RunState() == timer.Running {
			m.notice = nil
		}
		cmd := m.restartPolling()
		return m, cmd

	case key.Matches(msg, m.keys.Stop):
		m.ctrl.Stop()
		cmd := m.restartPolling()
		return m, cmd

	case key.Matches(msg, m.keys.Reset):
		m.err = nil
		m.notice = nil
		m.ctrl.Reset()
		cmd := m.restartPolling()
		return m, cmd

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.FocusMsg:
		m.focused = true

	case tea.BlurMsg:
		m.focused = false

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = max(20, min(60, msg.Width-12))

	case pollMsg:
		if msg.id != m.pollID {
			return m, nil
		}
		var cmds []tea.Cmd
		if n := m.ctrl.Check(m.focused); n != nil {
			m.notice = n
			cmds = append(cmds, m.notifyCmd(*n))
		}
		if m.ctrl.RunState() == timer.Running {
			cmds = append(cmds, m.pollCmd())
		}
		return m, tea.Batch(cmds...)

	case notifiedMsg:
		if msg.err != nil {
			debug.Logf("tui: notify: %v", msg.err)
		}
		if m.onNotified != nil {
			m.onNotified(msg.n, msg.err)
		}

	case settingsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, m.watchCmd()
		}
		m.ctrl.SetSounds(msg.settings.Sounds)
		m.notifications = msg.settings.Notifications
		m.err = nil
		return m, m.watchCmd()

	case watchErrMsg:
		if !errors.Is(msg.err, m.ctx.Err()) {
			debug.Logf("tui: config watch stopped: %v", msg.err)
		}
	}

	return m, nil
}
