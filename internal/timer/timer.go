// Package timer implements the pomodoro phase controller: the ordered round
// lengths, the position in that sequence, the current phase and run state,
// and what happens when the shared countdown reaches zero.
package timer

import (
	"errors"
	"fmt"
)

// Phase is the sub-state of the pomodoro cycle.
//
// Focus and Relax count down. BeforeFocus and BeforeRelax announce the next
// block and wait for the user (or focus-based auto-continue) to start it.
type Phase int

const (
	PhaseBeforeFocus Phase = iota
	PhaseFocus
	PhaseBeforeRelax
	PhaseRelax
)

func (p Phase) String() string {
	switch p {
	case PhaseBeforeFocus:
		return "before-focus"
	case PhaseFocus:
		return "focus"
	case PhaseBeforeRelax:
		return "before-relax"
	case PhaseRelax:
		return "relax"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Next returns the phase that follows p in the fixed cycle.
func (p Phase) Next() Phase {
	switch p {
	case PhaseBeforeFocus:
		return PhaseFocus
	case PhaseFocus:
		return PhaseBeforeRelax
	case PhaseBeforeRelax:
		return PhaseRelax
	default:
		return PhaseBeforeFocus
	}
}

// Counting reports whether the clock runs down a duration in this phase.
func (p Phase) Counting() bool {
	return p == PhaseFocus || p == PhaseRelax
}

// RunState tracks whether the countdown is decrementing.
type RunState int

const (
	Stopped RunState = iota
	Running
	Paused
)

func (s RunState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("runstate(%d)", int(s))
	}
}

// PhaseLength is one round: focus and relax durations in seconds.
type PhaseLength struct {
	Focus uint32
	Relax uint32
}

// DefaultLengths returns four 25/5 minute rounds followed by a 25/15 round.
func DefaultLengths() []PhaseLength {
	return []PhaseLength{
		{Focus: 25 * 60, Relax: 5 * 60},
		{Focus: 25 * 60, Relax: 5 * 60},
		{Focus: 25 * 60, Relax: 5 * 60},
		{Focus: 25 * 60, Relax: 5 * 60},
		{Focus: 25 * 60, Relax: 15 * 60},
	}
}

var (
	// ErrNoRounds is returned when the controller is built without rounds.
	ErrNoRounds = errors.New("at least one round is required")
	// ErrZeroLength is returned for a round with a zero focus or relax.
	ErrZeroLength = errors.New("round durations must be greater than zero")
	// ErrInvalidState is returned when an operation is called from a run
	// state it does not apply to.
	ErrInvalidState = errors.New("invalid run state for operation")
)

// NotificationKind identifies which phase boundary produced a notification.
type NotificationKind int

const (
	// NotifyBeforeRelax is emitted when a focus block runs out.
	NotifyBeforeRelax NotificationKind = iota
	// NotifyBeforeFocus is emitted when a relax block runs out.
	NotifyBeforeFocus
)

func (k NotificationKind) String() string {
	if k == NotifyBeforeRelax {
		return "before-relax"
	}
	return "before-focus"
}

// Notification describes a desktop notification for the caller to deliver.
// Title and body are message keys, not rendered text. BodyKey is empty when
// there is no body.
type Notification struct {
	Kind     NotificationKind
	TitleKey string
	BodyKey  string
	SoundID  string
}

// Sounds selects the sound played at each phase boundary.
type Sounds struct {
	EndOfFocus string
	EndOfRelax string
}

// DefaultSounds are freedesktop sound-theme names.
var DefaultSounds = Sounds{
	EndOfFocus: "window-attention-inactive",
	EndOfRelax: "alarm-clock-elapsed",
}

// Snapshot is a read-only view of the controller for rendering.
type Snapshot struct {
	Phase     Phase
	RunState  RunState
	Remaining uint32
	Position  int
	Rounds    int
	Length    PhaseLength
}

// Initial returns the full duration of the phase being counted, or 0 in the
// announcement phases.
func (s Snapshot) Initial() uint32 {
	switch s.Phase {
	case PhaseFocus:
		return s.Length.Focus
	case PhaseRelax:
		return s.Length.Relax
	default:
		return 0
	}
}

// Progress returns the elapsed fraction of the current block in [0, 1].
// Announcement phases always report 0.
func (s Snapshot) Progress() float64 {
	initial := s.Initial()
	if initial == 0 {
		return 0
	}
	p := 1 - float64(s.Remaining)/float64(initial)
	return min(max(p, 0), 1)
}

// FormatRemaining renders seconds as MM:SS. Minutes are not wrapped into
// hours, so 90 minutes is "90:00".
func FormatRemaining(seconds uint32) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
