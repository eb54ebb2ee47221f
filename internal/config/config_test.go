package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/pomodoro/internal/timer"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"POMODORO_POLL_INTERVAL", "POMODORO_NOTIFICATIONS", "POMODORO_LANGUAGE", "POMODORO_HISTORY"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
}

func TestLoadEmbedded(t *testing.T) {
	cfg, err := LoadEmbedded()
	require.NoError(t, err)

	require.Len(t, cfg.Rounds, 5)
	for _, r := range cfg.Rounds[:4] {
		assert.Equal(t, Round{Focus: 25 * time.Minute, Relax: 5 * time.Minute}, r)
	}
	assert.Equal(t, Round{Focus: 25 * time.Minute, Relax: 15 * time.Minute}, cfg.Rounds[4])
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.True(t, cfg.Notifications)
	assert.True(t, cfg.History)
	assert.Equal(t, "", cfg.Language)
	assert.Equal(t, Sound("window-attention-inactive"), cfg.Sounds.EndOfFocus)
	assert.Equal(t, Sound("alarm-clock-elapsed"), cfg.Sounds.EndOfRelax)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, timer.DefaultLengths(), cfg.Lengths())
	assert.Equal(t, timer.DefaultSounds, cfg.TimerSounds())
}

func TestLoadWithDirsInstallsDefaults(t *testing.T) {
	clearEnv(t)
	globalDir := filepath.Join(t.TempDir(), "pomodoro")

	cfg, err := LoadWithDirs(globalDir, "")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(globalDir, "config.yaml"))
	require.NoError(t, err)
	defaults, err := DefaultsYAML()
	require.NoError(t, err)
	assert.Equal(t, defaults, data)
	assert.Equal(t, []string{"embedded", filepath.Join(globalDir, "config.yaml")}, cfg.Sources())
	assert.Equal(t, globalDir, cfg.ConfigDir())
}

func TestLoadWithDirs_GlobalOnly(t *testing.T) {
	clearEnv(t)
	globalDir := t.TempDir()
	writeConfig(t, globalDir, "rounds:\n  - {focus: 50m, relax: 10m}\nnotifications: false\n")

	cfg, err := LoadWithDirs(globalDir, "")
	require.NoError(t, err)

	assert.Equal(t, []Round{{Focus: 50 * time.Minute, Relax: 10 * time.Minute}}, cfg.Rounds)
	assert.False(t, cfg.Notifications)
	assert.True(t, cfg.History)                             // from embedded default
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval) // from embedded default
}

func TestLoadWithDirs_LocalOverridesGlobal(t *testing.T) {
	clearEnv(t)
	globalDir := t.TempDir()
	localDir := t.TempDir()
	writeConfig(t, globalDir, "language: de\nhistory: false\n")
	writeConfig(t, localDir, "history: true\nsounds:\n  end_of_relax: dialog-information\n")

	cfg, err := LoadWithDirs(globalDir, localDir)
	require.NoError(t, err)

	assert.Equal(t, "de", cfg.Language)
	assert.True(t, cfg.History)
	assert.Equal(t, Sound("dialog-information"), cfg.Sounds.EndOfRelax)
	assert.Equal(t, Sound("window-attention-inactive"), cfg.Sounds.EndOfFocus)
	assert.Equal(t, localDir, cfg.LocalDir())
	assert.Len(t, cfg.Paths(), 2)
}

func TestEnvBetweenGlobalAndLocal(t *testing.T) {
	clearEnv(t)
	globalDir := t.TempDir()
	localDir := t.TempDir()
	writeConfig(t, globalDir, "poll_interval: 500ms\nlanguage: de\n")
	writeConfig(t, localDir, "language: en\n")
	t.Setenv("POMODORO_POLL_INTERVAL", "100ms")
	t.Setenv("POMODORO_LANGUAGE", "fr")
	t.Setenv("POMODORO_NOTIFICATIONS", "false")

	cfg, err := LoadWithDirs(globalDir, localDir)
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval) // env wins over global
	assert.Equal(t, "en", cfg.Language)                      // local wins over env
	assert.False(t, cfg.Notifications)
	assert.Contains(t, cfg.Sources(), "env:POMODORO_POLL_INTERVAL")
}

func TestApplyEnvIgnoresGarbage(t *testing.T) {
	clearEnv(t)
	t.Setenv("POMODORO_POLL_INTERVAL", "soon")
	t.Setenv("POMODORO_HISTORY", "maybe")

	cfg, err := LoadEmbedded()
	require.NoError(t, err)
	cfg.applyEnv()

	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.True(t, cfg.History)
	assert.False(t, cfg.HistorySet)
}

func TestLoadWithDirs_InvalidYAML(t *testing.T) {
	clearEnv(t)
	globalDir := t.TempDir()
	writeConfig(t, globalDir, "rounds: [\n")

	_, err := LoadWithDirs(globalDir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load global config")
}

func TestSoundByIndex(t *testing.T) {
	var s SoundsConfig
	require.NoError(t, yaml.Unmarshal([]byte("end_of_focus: 0\nend_of_relax: dialog-question\n"), &s))

	assert.Equal(t, Sound("message-new-instant"), s.EndOfFocus)
	assert.Equal(t, 0, s.EndOfFocus.Index())
	assert.Equal(t, Sound("dialog-question"), s.EndOfRelax)
}

func TestSoundIndexOutOfRange(t *testing.T) {
	var s SoundsConfig
	err := yaml.Unmarshal([]byte("end_of_focus: 46\n"), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestSoundNames(t *testing.T) {
	assert.Len(t, SoundNames, 46)
	seen := make(map[string]bool)
	for _, name := range SoundNames {
		assert.False(t, seen[name], "duplicate sound %q", name)
		seen[name] = true
	}
	assert.False(t, Sound("cowbell").Valid())
}

func TestApplyCLIFlags(t *testing.T) {
	tests := []struct {
		name string
		o    Overrides
		want []Round
	}{
		{
			name: "focus only keeps round count",
			o:    Overrides{Focus: 50 * time.Minute},
			want: []Round{
				{50 * time.Minute, 5 * time.Minute},
				{50 * time.Minute, 5 * time.Minute},
				{50 * time.Minute, 5 * time.Minute},
				{50 * time.Minute, 5 * time.Minute},
				{50 * time.Minute, 15 * time.Minute},
			},
		},
		{
			name: "rounds and long relax",
			o:    Overrides{Rounds: 2, LongRelax: 30 * time.Minute, Relax: time.Minute},
			want: []Round{
				{25 * time.Minute, time.Minute},
				{25 * time.Minute, 30 * time.Minute},
			},
		},
		{
			name: "single round takes long relax",
			o:    Overrides{Rounds: 1},
			want: []Round{{25 * time.Minute, 15 * time.Minute}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadEmbedded()
			require.NoError(t, err)

			cfg.ApplyCLIFlags(tt.o)

			assert.Equal(t, tt.want, cfg.Rounds)
			assert.Contains(t, cfg.Sources(), "cli:rounds")
		})
	}
}

func TestApplyCLIFlagsZeroNoOverride(t *testing.T) {
	cfg, err := LoadEmbedded()
	require.NoError(t, err)
	before := cfg.Rounds

	cfg.ApplyCLIFlags(Overrides{})

	assert.Equal(t, before, cfg.Rounds)
	assert.True(t, cfg.Notifications)
	assert.Empty(t, cfg.Sources())
}

func TestApplyCLIFlagsNotifyAndLanguage(t *testing.T) {
	cfg, err := LoadEmbedded()
	require.NoError(t, err)

	cfg.ApplyCLIFlags(Overrides{NoNotify: true, Language: "de"})

	assert.False(t, cfg.Notifications)
	assert.Equal(t, "de", cfg.Language)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "no rounds", mutate: func(c *Config) { c.Rounds = nil }, wantErr: "at least one round"},
		{name: "zero focus", mutate: func(c *Config) { c.Rounds[1].Focus = 0 }, wantErr: "round 2: focus"},
		{name: "fractional relax", mutate: func(c *Config) { c.Rounds[0].Relax = 1500 * time.Millisecond }, wantErr: "round 1: relax must be a whole number of seconds"},
		{name: "poll too slow", mutate: func(c *Config) { c.PollInterval = 2 * time.Second }, wantErr: "poll_interval"},
		{name: "poll zero", mutate: func(c *Config) { c.PollInterval = 0 }, wantErr: "poll_interval"},
		{name: "unknown sound", mutate: func(c *Config) { c.Sounds.EndOfRelax = "cowbell" }, wantErr: `unknown sound "cowbell"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadEmbedded()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := LoadEmbedded()
	require.NoError(t, err)

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "focus: 25m0s")

	back, err := parseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Rounds, back.Rounds)
	assert.Equal(t, cfg.Sounds, back.Sounds)
}
