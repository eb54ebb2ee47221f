package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/pomodoro/internal/config"
	"github.com/alexander-akhmetov/pomodoro/internal/debug"
	"github.com/alexander-akhmetov/pomodoro/internal/dirs"
	"github.com/alexander-akhmetov/pomodoro/internal/history"
	"github.com/alexander-akhmetov/pomodoro/internal/i18n"
	"github.com/alexander-akhmetov/pomodoro/internal/notify"
	"github.com/alexander-akhmetov/pomodoro/internal/progress"
	"github.com/alexander-akhmetov/pomodoro/internal/session"
	"github.com/alexander-akhmetov/pomodoro/internal/timer"
)

var overrides config.Overrides

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the timer",
	Long: `Run the timer in the terminal.

The timer waits before each block until you start it. When a focus block
runs out while the terminal has focus, the relax block starts right away;
otherwise the timer waits for you.

Round flags replace the configured rounds with --rounds rounds of
--focus/--relax, the last one ending with --long-relax.

Controls:
  space/enter - Start, pause or resume
  s           - Stop
  r           - Reset to the first round
  ?           - Toggle help
  q           - Quit`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	addStartFlags(startCmd)
}

func addStartFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&overrides.Focus, "focus", 0, "Focus block length (e.g. 25m)")
	cmd.Flags().DurationVar(&overrides.Relax, "relax", 0, "Short relax block length")
	cmd.Flags().DurationVar(&overrides.LongRelax, "long-relax", 0, "Relax block length of the last round")
	cmd.Flags().IntVarP(&overrides.Rounds, "rounds", "n", 0, "Number of rounds in a cycle")
	cmd.Flags().BoolVar(&overrides.NoNotify, "no-notify", false, "Disable desktop notifications")
	cmd.Flags().StringVar(&overrides.Language, "lang", "", "Message language (en, de)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyCLIFlags(overrides)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runStart(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return runTimer(cmd.Context(), cfg)
}

func runTimer(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tr, err := i18n.New(cfg.Language)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	runID := uuid.NewString()

	logger, err := progress.NewLogger(progress.Config{
		LogsDir: dirs.LogsDir(),
		RunID:   runID,
		Rounds:  cfg.Lengths(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not create session log: %v\n", err)
	}
	logErr := func(format string, args ...any) {
		debug.Logf(format, args...)
		if logger != nil {
			logger.Errorf(format, args...)
		}
	}

	var observers []func(timer.Event)
	if logger != nil {
		observers = append(observers, logger.Event)
	}

	if cfg.History {
		store, err := history.Open(dirs.HistoryPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: history disabled: %v\n", err)
		} else {
			defer store.Close()
			observers = append(observers, store.Recorder(ctx, runID, func(err error) {
				logErr("history: %v", err)
			}))
		}
	}

	sess := session.NewFile(dirs.SessionPath())
	defer func() {
		if err := sess.Remove(); err != nil {
			debug.Logf("tui: %v", err)
		}
	}()

	var ctrl *timer.Controller
	publish := func() {
		if err := sess.Write(session.FromSnapshot(runID, ctrl.Snapshot())); err != nil {
			logErr("session: %v", err)
		}
	}
	observers = append(observers, func(timer.Event) { publish() })

	// The clock outlives a cancelled ctx until the program has stopped
	// sending it input.
	ctrl, err = timer.New(context.WithoutCancel(ctx), cfg.Lengths(),
		timer.WithSounds(cfg.TimerSounds()),
		timer.WithObserver(func(e timer.Event) {
			for _, o := range observers {
				o(e)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("create timer: %w", err)
	}
	defer ctrl.Close()
	publish()

	notifier := newNotifier(overrides.NoNotify)
	if c, ok := notifier.(interface{ Close() error }); ok {
		defer c.Close()
	}

	opts := Options{
		Controller:    ctrl,
		Translator:    tr,
		Notifier:      notifier,
		Notifications: cfg.Notifications,
		PollInterval:  cfg.PollInterval,
		OnNotified: func(n timer.Notification, err error) {
			if logger != nil {
				logger.Notification(n)
			}
			if err != nil {
				logErr("notify: %v", err)
			}
		},
	}

	if watcher, err := config.NewWatcher(cfg.Paths()); err != nil {
		debug.Logf("tui: config reload disabled: %v", err)
	} else {
		defer watcher.Close()
		opts.Changes = watcher
		opts.Reload = reloadSettings
	}

	if debug.Enabled() {
		if f, err := os.OpenFile(filepath.Join(dirs.LogsDir(), "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600); err == nil {
			prev := debug.SetOutput(f)
			defer func() {
				debug.SetOutput(prev)
				f.Close()
			}()
		}
	}

	p := tea.NewProgram(NewModel(ctx, opts),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()

	if logger != nil {
		logger.Exit()
		if cerr := logger.Close(); cerr != nil {
			debug.Logf("tui: %v", cerr)
		}
	}
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func reloadSettings() (Settings, error) {
	cfg, err := loadConfig()
	if err != nil {
		return Settings{}, err
	}
	return Settings{Sounds: cfg.TimerSounds(), Notifications: cfg.Notifications}, nil
}

// newNotifier connects to the session bus. Without one, notifications are
// dropped.
func newNotifier(disabled bool) notify.Notifier {
	if disabled {
		return notify.Nop{}
	}
	d, err := notify.NewDBus()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: desktop notifications unavailable: %v\n", err)
		return notify.Nop{}
	}
	return d
}
