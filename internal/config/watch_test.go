package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history: true\n"), 0o600))

	w, err := NewWatcher([]string{path, filepath.Join(t.TempDir(), "missing", "config.yaml")})
	require.NoError(t, err)
	defer w.Close()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(path, []byte("history: false\n"), 0o600)
	}()

	got, err := w.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestWatcherContextCancel(t *testing.T) {
	w, err := NewWatcher([]string{filepath.Join(t.TempDir(), "config.yaml")})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = w.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
