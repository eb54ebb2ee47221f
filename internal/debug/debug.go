// Package debug provides debug logging utilities.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	enabled = os.Getenv("POMODORO_DEBUG") == "1"
	out     io.Writer = os.Stderr
)

// Logf writes a debug message if POMODORO_DEBUG=1
func Logf(format string, args ...any) {
	if !enabled {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	msg := fmt.Sprintf(format, args...)

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "[DEBUG %s] %s\n", timestamp, msg)
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	return enabled
}

// SetOutput redirects debug output. The TUI points it at a file while the
// alternate screen owns the terminal. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}
