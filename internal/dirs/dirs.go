// Package dirs resolves the XDG Base Directory locations pomodoro reads from
// and writes to.
package dirs

import (
	"os"
	"path/filepath"
)

const appName = "pomodoro"

// ConfigDir returns the global configuration directory.
// Resolution order: POMODORO_CONFIG_DIR > XDG_CONFIG_HOME/pomodoro > ~/.config/pomodoro.
func ConfigDir() string {
	return resolve("POMODORO_CONFIG_DIR", "XDG_CONFIG_HOME", ".config")
}

// StateDir returns the directory for logs, history and the session file.
// Resolution order: POMODORO_STATE_DIR > XDG_STATE_HOME/pomodoro > ~/.local/state/pomodoro.
func StateDir() string {
	return resolve("POMODORO_STATE_DIR", "XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// LogsDir returns the session log directory (StateDir/logs).
func LogsDir() string {
	return filepath.Join(StateDir(), "logs")
}

// HistoryPath returns the SQLite history database path.
func HistoryPath() string {
	return filepath.Join(StateDir(), "history.db")
}

// SessionPath returns the file describing the running timer.
func SessionPath() string {
	return filepath.Join(StateDir(), "session.json")
}

func resolve(overrideEnv, xdgEnv, homeRel string) string {
	if dir := os.Getenv(overrideEnv); dir != "" {
		return dir
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", homeRel, appName)
	}
	return filepath.Join(home, homeRel, appName)
}
