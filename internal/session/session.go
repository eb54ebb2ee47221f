// Package session publishes the state of a running timer to a small JSON
// file so that other processes (`pomodoro status`, shell prompts) can show
// it without talking to the TUI.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/pomodoro/internal/timer"
)

// ErrNoSession is returned by Read when no live session file exists.
var ErrNoSession = errors.New("no running session")

// State is the published view of a timer.
type State struct {
	PID       int
	RunID     string
	Phase     string
	RunState  string
	Remaining uint32
	Round     int
	Rounds    int
	UpdatedAt time.Time
}

// FromSnapshot converts a controller snapshot.
func FromSnapshot(runID string, s timer.Snapshot) State {
	return State{
		PID:       os.Getpid(),
		RunID:     runID,
		Phase:     s.Phase.String(),
		RunState:  s.RunState.String(),
		Remaining: s.Remaining,
		Round:     s.Position + 1,
		Rounds:    s.Rounds,
	}
}

// Running reports whether the countdown was active when the file was written.
func (s State) Running() bool {
	return s.RunState == timer.Running.String()
}

// RemainingAt estimates the remaining seconds at t for a running timer.
func (s State) RemainingAt(t time.Time) uint32 {
	if !s.Running() {
		return s.Remaining
	}
	elapsed := t.Sub(s.UpdatedAt)
	if elapsed <= 0 {
		return s.Remaining
	}
	secs := uint32(elapsed / time.Second)
	if secs >= s.Remaining {
		return 0
	}
	return s.Remaining - secs
}

// Marshal encodes s as JSON.
func Marshal(s State) ([]byte, error) {
	updated := s.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	data := []byte(`{}`)
	fields := []struct {
		path  string
		value any
	}{
		{"pid", s.PID},
		{"run_id", s.RunID},
		{"phase", s.Phase},
		{"state", s.RunState},
		{"remaining", s.Remaining},
		{"round", s.Round},
		{"rounds", s.Rounds},
		{"updated_at", updated.UTC().Format(time.RFC3339)},
	}
	for _, f := range fields {
		var err error
		data, err = sjson.SetBytes(data, f.path, f.value)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", f.path, err)
		}
	}
	return data, nil
}

// Unmarshal decodes a session file.
func Unmarshal(data []byte) (State, error) {
	if !gjson.ValidBytes(data) {
		return State{}, fmt.Errorf("invalid session json")
	}
	r := gjson.ParseBytes(data)
	s := State{
		PID:       int(r.Get("pid").Int()),
		RunID:     r.Get("run_id").String(),
		Phase:     r.Get("phase").String(),
		RunState:  r.Get("state").String(),
		Remaining: uint32(r.Get("remaining").Uint()),
		Round:     int(r.Get("round").Int()),
		Rounds:    int(r.Get("rounds").Int()),
	}
	if v := r.Get("updated_at"); v.Exists() {
		t, err := time.Parse(time.RFC3339, v.String())
		if err != nil {
			return State{}, fmt.Errorf("parse updated_at: %w", err)
		}
		s.UpdatedAt = t
	}
	return s, nil
}

// Pretty indents raw session JSON for display.
func Pretty(data []byte) []byte {
	return pretty.Pretty(data)
}

// File is a session file owned by this process.
type File struct {
	path string
}

// NewFile returns a session file at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Write replaces the file contents atomically.
func (f *File) Write(s State) error {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*.json")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename session file: %w", err)
	}
	return nil
}

// Remove deletes the file. A missing file is not an error.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Read loads the session at path. A file left behind by a process that is
// no longer alive is removed and reported as ErrNoSession.
func Read(path string) (State, []byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return State{}, nil, ErrNoSession
	}
	if err != nil {
		return State{}, nil, fmt.Errorf("read session file: %w", err)
	}
	s, err := Unmarshal(data)
	if err != nil {
		return State{}, nil, err
	}
	if !processAlive(s.PID) {
		_ = os.Remove(path)
		return State{}, nil, ErrNoSession
	}
	return s, data, nil
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = p.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
