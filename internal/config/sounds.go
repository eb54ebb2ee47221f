package config

import (
	"fmt"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SoundNames is the fixed list of freedesktop sound-theme names a
// notification sound can be chosen from. Indices into this list are stable.
var SoundNames = []string{
	"message-new-instant",
	"message-new-email",
	"complete-media-burn",
	"complete-media-burn-test",
	"complete-media-rip",
	"complete-media-format",
	"complete-download",
	"complete-copy",
	"complete-scan",
	"phone-incoming-call",
	"phone-outgoing-busy",
	"phone-hangup",
	"phone-failure",
	"network-connectivity-established",
	"system-bootup",
	"system-ready",
	"system-shutdown",
	"search-results",
	"search-results-empty",
	"desktop-login",
	"desktop-logout",
	"desktop-screen-lock",
	"service-login",
	"service-logout",
	"battery-caution",
	"battery-full",
	"dialog-warning",
	"dialog-information",
	"dialog-question",
	"software-update-available",
	"device-added",
	"device-added-audio",
	"device-added-media",
	"device-removed",
	"device-removed-media",
	"device-removed-audio",
	"window-new",
	"power-plug",
	"power-unplug",
	"suspend-start",
	"suspend-resume",
	"lid-open",
	"lid-close",
	"alarm-clock-elapsed",
	"window-attention-active",
	"window-attention-inactive",
}

// Sound is a sound name from SoundNames. In YAML it may be written either as
// the name or as its index in the list.
type Sound string

// UnmarshalYAML accepts a sound name or an integer index.
func (s *Sound) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: sound must be a name or an index", node.Line)
	}
	if node.Tag == "!!int" {
		idx, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: parse sound index: %w", node.Line, err)
		}
		if idx < 0 || idx >= len(SoundNames) {
			return fmt.Errorf("line %d: sound index %d out of range [0, %d)", node.Line, idx, len(SoundNames))
		}
		*s = Sound(SoundNames[idx])
		return nil
	}
	*s = Sound(node.Value)
	return nil
}

// Index returns the position of s in SoundNames, or -1.
func (s Sound) Index() int {
	return slices.Index(SoundNames, string(s))
}

// Valid reports whether s is one of SoundNames.
func (s Sound) Valid() bool {
	return s.Index() >= 0
}
