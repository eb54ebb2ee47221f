// Package progress writes a timestamped log of one timer session: every
// start, pause, resume, reset and completed block, plus delivery errors.
// Each run gets its own file under the state directory's logs/.
package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alexander-akhmetov/pomodoro/internal/timer"
)

// timestampFormat is the format for log timestamps.
const timestampFormat = "2006-01-02 15:04:05"

// Logger writes timestamped progress to a log file and optional io.Writer.
type Logger struct {
	mu        sync.Mutex
	file      *os.File
	writer    io.Writer
	startTime time.Time
	logPath   string

	focusBlocks  int
	focusSeconds uint32
	relaxBlocks  int
}

// Config holds logger configuration.
type Config struct {
	LogsDir string              // Directory for log files
	RunID   string              // Identifier written into the file name
	Rounds  []timer.PhaseLength // Configured rounds, written into the header
	Writer  io.Writer           // Optional additional writer
}

// NewLogger creates a logger that writes to a timestamped log file.
// Log files are stored in LogsDir with format: <timestamp>-<run-id>.log
func NewLogger(cfg Config) (*Logger, error) {
	if cfg.LogsDir == "" {
		return nil, fmt.Errorf("logs dir is required")
	}
	if err := os.MkdirAll(cfg.LogsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}

	name := time.Now().Format("20060102-150405")
	if cfg.RunID != "" {
		name += "-" + shortID(cfg.RunID)
	}
	logPath := filepath.Join(cfg.LogsDir, name+".log")

	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	l := &Logger{
		file:      f,
		writer:    cfg.Writer,
		startTime: time.Now(),
		logPath:   logPath,
	}

	l.writef("# Pomodoro Session Log\n")
	if cfg.RunID != "" {
		l.writef("Run: %s\n", cfg.RunID)
	}
	l.writef("Started: %s\n", l.startTime.Format(timestampFormat))
	for i, r := range cfg.Rounds {
		l.writef("Round %d: focus %s, relax %s\n", i+1, timer.FormatRemaining(r.Focus), timer.FormatRemaining(r.Relax))
	}
	l.writef("%s\n\n", strings.Repeat("-", 60))

	return l, nil
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.logPath
}

// Printf writes a timestamped message to the log.
func (l *Logger) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.writef("[%s] %s\n", time.Now().Format(timestampFormat), msg)
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.writef("[%s] ERROR: %s\n", time.Now().Format(timestampFormat), msg)
}

// Event logs a controller event.
func (l *Logger) Event(e timer.Event) {
	if e.Kind == timer.EventComplete {
		l.mu.Lock()
		if e.Phase == timer.PhaseFocus {
			l.focusBlocks++
			l.focusSeconds += e.Duration
		} else {
			l.relaxBlocks++
		}
		l.mu.Unlock()
		l.Printf("Completed %s of round %d (%s)", e.Phase, e.Position+1, timer.FormatRemaining(e.Duration))
		return
	}
	l.Printf("%s: phase=%s round=%d", capitalize(e.Kind.String()), e.Phase, e.Position+1)
}

// Notification logs a delivered notification.
func (l *Logger) Notification(n timer.Notification) {
	l.Printf("Notification: %s (sound %s)", n.Kind, n.SoundID)
}

// Exit writes the session summary.
func (l *Logger) Exit() {
	l.mu.Lock()
	focusBlocks, focusSeconds, relaxBlocks := l.focusBlocks, l.focusSeconds, l.relaxBlocks
	l.mu.Unlock()

	l.writef("\n%s\n", strings.Repeat("-", 60))
	l.writef("Focus blocks: %d (%s)\n", focusBlocks, timer.FormatRemaining(focusSeconds))
	l.writef("Relax blocks: %d\n", relaxBlocks)
	l.writef("Duration: %s\n", l.elapsed())
	l.writef("Finished: %s\n", time.Now().Format(timestampFormat))
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

func (l *Logger) writef(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		fmt.Fprintf(l.file, format, args...)
	}
	if l.writer != nil {
		fmt.Fprintf(l.writer, format, args...)
	}
}

func (l *Logger) elapsed() string {
	d := time.Since(l.startTime).Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
