// Package config provides unified configuration management for pomodoro.
// Configuration is loaded from multiple sources with the following precedence:
// embedded defaults → global file → env vars → local file → CLI flags
package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/pomodoro/internal/dirs"
	"github.com/alexander-akhmetov/pomodoro/internal/timer"
)

//go:embed defaults/config.yaml
var defaultsFS embed.FS

// MaxPollInterval bounds poll_interval: polling slower than one clock tick
// would let the counter sit at zero unnoticed.
const MaxPollInterval = time.Second

// Round is one focus/relax pair.
type Round struct {
	Focus time.Duration `yaml:"focus"`
	Relax time.Duration `yaml:"relax"`
}

// SoundsConfig selects the notification sound for each phase boundary.
type SoundsConfig struct {
	EndOfFocus Sound `yaml:"end_of_focus"`
	EndOfRelax Sound `yaml:"end_of_relax"`
}

// Config holds all configuration settings for pomodoro.
// Fields ending in *Set track whether a boolean was explicitly set so that a
// later layer can override an earlier true with false.
type Config struct {
	Rounds        []Round       `yaml:"rounds"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	Notifications bool          `yaml:"notifications"`
	Language      string        `yaml:"language"`
	History       bool          `yaml:"history"`
	Sounds        SoundsConfig  `yaml:"sounds"`

	NotificationsSet bool `yaml:"-"`
	HistorySet       bool `yaml:"-"`

	configDir string
	localDir  string
	sources   []string
}

// Sources returns the ordered list of sources that contributed to this config.
func (c *Config) Sources() []string {
	return c.sources
}

// LocalDir returns the local project config directory if one was detected.
func (c *Config) LocalDir() string {
	return c.localDir
}

// ConfigDir returns the global config directory.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// GlobalPath returns the global config file path.
func (c *Config) GlobalPath() string {
	return filepath.Join(c.configDir, "config.yaml")
}

// Paths returns the config files a running timer should watch for changes.
func (c *Config) Paths() []string {
	paths := []string{c.GlobalPath()}
	if c.localDir != "" {
		paths = append(paths, filepath.Join(c.localDir, "config.yaml"))
	}
	return paths
}

// Load loads all configuration from the default locations.
// It auto-detects .pomodoro/ in the current working directory for local overrides.
func Load() (*Config, error) {
	var localDir string
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, ".pomodoro")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			localDir = candidate
		}
	}

	return LoadWithDirs(dirs.ConfigDir(), localDir)
}

// LoadWithDirs loads configuration with explicit global and local directories.
// If localDir is empty, only global config is used.
func LoadWithDirs(globalDir, localDir string) (*Config, error) {
	if err := InstallDefaults(globalDir); err != nil {
		return nil, fmt.Errorf("install defaults: %w", err)
	}

	cfg, err := LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}
	cfg.sources = append(cfg.sources, "embedded")

	globalPath := filepath.Join(globalDir, "config.yaml")
	if globalCfg, err := loadFile(globalPath); err == nil {
		cfg.mergeFrom(globalCfg)
		cfg.sources = append(cfg.sources, globalPath)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("load global config: %w", err)
	}

	cfg.applyEnv()

	if localDir != "" {
		localPath := filepath.Join(localDir, "config.yaml")
		if localCfg, err := loadFile(localPath); err == nil {
			cfg.mergeFrom(localCfg)
			cfg.sources = append(cfg.sources, localPath)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load local config: %w", err)
		}
	}

	cfg.configDir = globalDir
	cfg.localDir = localDir
	return cfg, nil
}

// InstallDefaults creates the config directory and writes the default config
// file if there is none yet.
func InstallDefaults(configDir string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		data, err := DefaultsYAML()
		if err != nil {
			return err
		}
		if err := os.WriteFile(configPath, data, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}

	return nil
}

// DefaultsYAML returns the embedded default configuration file.
func DefaultsYAML() ([]byte, error) {
	data, err := defaultsFS.ReadFile("defaults/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}
	return data, nil
}

// LoadEmbedded loads config from the embedded defaults only.
func LoadEmbedded() (*Config, error) {
	data, err := DefaultsYAML()
	if err != nil {
		return nil, err
	}
	return parseConfig(data)
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user's config file
	if err != nil {
		return nil, err
	}
	return parseConfigWithTracking(data)
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// parseConfigWithTracking parses YAML config and records which booleans were
// present in the file.
func parseConfigWithTracking(data []byte) (*Config, error) {
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if _, ok := raw["notifications"]; ok {
		cfg.NotificationsSet = true
	}
	if _, ok := raw["history"]; ok {
		cfg.HistorySet = true
	}

	return cfg, nil
}

func parseBool(v string) (bool, bool) {
	b, err := strconv.ParseBool(v)
	return b, err == nil
}

// applyEnv applies environment variables to the config.
// Env vars sit between global and local config in precedence.
func (c *Config) applyEnv() {
	if v := os.Getenv("POMODORO_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PollInterval = d
			c.sources = append(c.sources, "env:POMODORO_POLL_INTERVAL")
		}
	}

	if v := os.Getenv("POMODORO_NOTIFICATIONS"); v != "" {
		if b, ok := parseBool(v); ok {
			c.Notifications = b
			c.NotificationsSet = true
			c.sources = append(c.sources, "env:POMODORO_NOTIFICATIONS")
		}
	}

	if v := os.Getenv("POMODORO_LANGUAGE"); v != "" {
		c.Language = v
		c.sources = append(c.sources, "env:POMODORO_LANGUAGE")
	}

	if v := os.Getenv("POMODORO_HISTORY"); v != "" {
		if b, ok := parseBool(v); ok {
			c.History = b
			c.HistorySet = true
			c.sources = append(c.sources, "env:POMODORO_HISTORY")
		}
	}
}

// mergeFrom merges non-empty/set values from src into c.
func (c *Config) mergeFrom(src *Config) {
	if len(src.Rounds) > 0 {
		c.Rounds = src.Rounds
	}
	if src.PollInterval > 0 {
		c.PollInterval = src.PollInterval
	}
	if src.NotificationsSet {
		c.Notifications = src.Notifications
		c.NotificationsSet = true
	}
	if src.Language != "" {
		c.Language = src.Language
	}
	if src.HistorySet {
		c.History = src.History
		c.HistorySet = true
	}
	if src.Sounds.EndOfFocus != "" {
		c.Sounds.EndOfFocus = src.Sounds.EndOfFocus
	}
	if src.Sounds.EndOfRelax != "" {
		c.Sounds.EndOfRelax = src.Sounds.EndOfRelax
	}
}

// Overrides are the start command's flags. Zero values leave the config alone.
type Overrides struct {
	Focus     time.Duration
	Relax     time.Duration
	LongRelax time.Duration
	Rounds    int
	NoNotify  bool
	Language  string
}

// ApplyCLIFlags applies CLI flag overrides to the config.
// CLI flags have the highest precedence. Any of the round flags rebuilds the
// round sequence as Rounds-1 focus/relax rounds followed by a focus/long-relax
// round, filling unset values from the current first and last rounds.
func (c *Config) ApplyCLIFlags(o Overrides) {
	if o.Focus > 0 || o.Relax > 0 || o.LongRelax > 0 || o.Rounds > 0 {
		c.Rounds = rebuildRounds(c.Rounds, o)
		c.sources = append(c.sources, "cli:rounds")
	}
	if o.NoNotify {
		c.Notifications = false
		c.NotificationsSet = true
		c.sources = append(c.sources, "cli:no-notify")
	}
	if o.Language != "" {
		c.Language = o.Language
		c.sources = append(c.sources, "cli:lang")
	}
}

func rebuildRounds(current []Round, o Overrides) []Round {
	var first, last Round
	if len(current) > 0 {
		first, last = current[0], current[len(current)-1]
	}

	n := o.Rounds
	if n <= 0 {
		n = max(len(current), 1)
	}
	focus := first.Focus
	if o.Focus > 0 {
		focus = o.Focus
	}
	relax := first.Relax
	if o.Relax > 0 {
		relax = o.Relax
	}
	longRelax := last.Relax
	if o.LongRelax > 0 {
		longRelax = o.LongRelax
	}

	rounds := make([]Round, n)
	for i := range rounds {
		rounds[i] = Round{Focus: focus, Relax: relax}
	}
	rounds[n-1].Relax = longRelax
	return rounds
}

// Validate checks that the configuration can drive a timer.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Rounds) == 0 {
		errs = append(errs, errors.New("rounds: at least one round is required"))
	}
	for i, r := range c.Rounds {
		if err := validateDuration(r.Focus); err != nil {
			errs = append(errs, fmt.Errorf("round %d: focus %w", i+1, err))
		}
		if err := validateDuration(r.Relax); err != nil {
			errs = append(errs, fmt.Errorf("round %d: relax %w", i+1, err))
		}
	}
	if c.PollInterval <= 0 || c.PollInterval > MaxPollInterval {
		errs = append(errs, fmt.Errorf("poll_interval: must be in (0, %s], got %s", MaxPollInterval, c.PollInterval))
	}
	if !c.Sounds.EndOfFocus.Valid() {
		errs = append(errs, fmt.Errorf("sounds.end_of_focus: unknown sound %q", c.Sounds.EndOfFocus))
	}
	if !c.Sounds.EndOfRelax.Valid() {
		errs = append(errs, fmt.Errorf("sounds.end_of_relax: unknown sound %q", c.Sounds.EndOfRelax))
	}
	return errors.Join(errs...)
}

func validateDuration(d time.Duration) error {
	if d <= 0 || d%time.Second != 0 {
		return fmt.Errorf("must be a whole number of seconds > 0, got %s", d)
	}
	if d/time.Second > 1<<32-1 {
		return fmt.Errorf("is too long: %s", d)
	}
	return nil
}

// Lengths converts the rounds into timer lengths. Call Validate first.
func (c *Config) Lengths() []timer.PhaseLength {
	lengths := make([]timer.PhaseLength, len(c.Rounds))
	for i, r := range c.Rounds {
		lengths[i] = timer.PhaseLength{
			Focus: uint32(r.Focus / time.Second),
			Relax: uint32(r.Relax / time.Second),
		}
	}
	return lengths
}

// TimerSounds returns the configured notification sounds.
func (c *Config) TimerSounds() timer.Sounds {
	return timer.Sounds{
		EndOfFocus: string(c.Sounds.EndOfFocus),
		EndOfRelax: string(c.Sounds.EndOfRelax),
	}
}

// Marshal renders the resolved configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}
