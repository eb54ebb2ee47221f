package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	progressbar "github.com/charmbracelet/bubbles/progress"

	"github.com/alexander-akhmetov/pomodoro/internal/notify"
	"github.com/alexander-akhmetov/pomodoro/internal/timer"
)

// Settings are the parts of the configuration a running timer picks up
// without a restart.
type Settings struct {
	Sounds        timer.Sounds
	Notifications bool
}

// ChangeSource blocks until the configuration changed on disk.
type ChangeSource interface {
	Next(ctx context.Context) (string, error)
}

// Options wires a Model to its collaborators.
type Options struct {
	Controller    *timer.Controller
	Translator    notify.Translator
	Notifier      notify.Notifier
	Notifications bool
	PollInterval  time.Duration

	// Changes and Reload enable live settings reload; both may be nil.
	Changes ChangeSource
	Reload  func() (Settings, error)

	// OnNotified is called for every notification after delivery was
	// attempted. err is nil when notifications are disabled.
	OnNotified func(n timer.Notification, err error)
}

// Model is the bubbletea model for the timer screen.
type Model struct {
	ctx  context.Context
	ctrl *timer.Controller
	tr   notify.Translator

	notifier      notify.Notifier
	notifications bool
	onNotified    func(timer.Notification, error)

	changes ChangeSource
	reload  func() (Settings, error)

	pollInterval time.Duration
	// pollID identifies the current polling chain. Ticks from an older
	// chain are dropped.
	pollID int

	focused  bool
	width    int
	keys     keyMap
	help     help.Model
	progress progressbar.Model

	notice *timer.Notification
	err    error
}

// NewModel creates a Model. ctx bounds notification delivery and the config
// watch.
func NewModel(ctx context.Context, o Options) Model {
	notifier := o.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	poll := o.PollInterval
	if poll <= 0 {
		poll = 250 * time.Millisecond
	}

	return Model{
		ctx:           ctx,
		ctrl:          o.Controller,
		tr:            o.Translator,
		notifier:      notifier,
		notifications: o.Notifications,
		onNotified:    o.OnNotified,
		changes:       o.Changes,
		reload:        o.Reload,
		pollInterval:  poll,
		focused:       true,
		keys:          newKeyMap(),
		help:          help.New(),
		progress:      progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithoutPercentage()),
	}
}

// pollMsg asks the model to check the countdown.
type pollMsg struct {
	id int
}

// notifiedMsg reports the outcome of a delivery.
type notifiedMsg struct {
	n   timer.Notification
	err error
}

// settingsMsg carries reloaded settings.
type settingsMsg struct {
	settings Settings
	err      error
}

// watchErrMsg ends the config watch.
type watchErrMsg struct {
	err error
}
