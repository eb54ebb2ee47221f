// Package main provides the CLI entry point for pomodoro.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/alexander-akhmetov/pomodoro/internal/tui"
)

// Version information set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if info, ok := debug.ReadBuildInfo(); ok {
		version, commit, date = versionFromBuildInfo(info, version, commit, date)
	}
	tui.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := tui.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// versionFromBuildInfo fills in values not set by ldflags. A binary built
// with `go install module@version` reports its module version.
func versionFromBuildInfo(info *debug.BuildInfo, v, c, d string) (string, string, string) {
	if v != "dev" {
		return v, c, d
	}
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		v = mv
	}
	c, d = versionFromSettings(info.Settings)
	return v, c, d
}

func versionFromSettings(settings []debug.BuildSetting) (string, string) {
	var revision, date string
	dirty := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			date = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	c := "unknown"
	if len(revision) >= 7 {
		c = revision[:7]
		if dirty {
			c += "-dirty"
		}
	}

	d := "unknown"
	if date != "" {
		d = date
	}
	return c, d
}
