package timer

import (
	"context"
	"fmt"
	"slices"

	"github.com/alexander-akhmetov/pomodoro/internal/clock"
	"github.com/alexander-akhmetov/pomodoro/internal/debug"
)

// EventKind identifies a controller event reported to the observer.
type EventKind int

const (
	EventStart EventKind = iota
	EventPause
	EventResume
	EventStop
	EventReset
	// EventComplete is reported when a focus or relax block runs out.
	EventComplete
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventStop:
		return "stop"
	case EventReset:
		return "reset"
	case EventComplete:
		return "complete"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is passed to the observer after the controller changed state.
// For EventComplete, Phase is the block that finished and Duration its
// configured length in seconds.
type Event struct {
	Kind     EventKind
	Phase    Phase
	Position int
	Duration uint32
}

// Option configures a Controller.
type Option func(*Controller)

// WithClockOptions passes options through to the countdown clock.
func WithClockOptions(opts ...clock.Option) Option {
	return func(c *Controller) {
		c.clockOpts = append(c.clockOpts, opts...)
	}
}

// WithSounds selects the sounds attached to boundary notifications.
func WithSounds(s Sounds) Option {
	return func(c *Controller) {
		c.sounds = s
	}
}

// WithObserver registers a callback invoked synchronously after every
// state change.
func WithObserver(fn func(Event)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// Controller owns the countdown clock and the pomodoro state machine.
// Its methods are meant to be called from a single goroutine (the UI event
// loop); only the remaining-seconds counter is shared with the clock.
type Controller struct {
	lengths  []PhaseLength
	position int
	phase    Phase
	state    RunState

	clock     *clock.Clock
	remaining *clock.Counter
	clockOpts []clock.Option

	sounds   Sounds
	observer func(Event)
}

// New builds a controller for the given rounds and spawns its clock. The
// clock stops when ctx is cancelled or Close is called.
func New(ctx context.Context, lengths []PhaseLength, opts ...Option) (*Controller, error) {
	if len(lengths) == 0 {
		return nil, ErrNoRounds
	}
	for i, l := range lengths {
		if l.Focus == 0 || l.Relax == 0 {
			return nil, fmt.Errorf("round %d: %w", i+1, ErrZeroLength)
		}
	}

	c := &Controller{
		lengths: slices.Clone(lengths),
		phase:   PhaseBeforeFocus,
		state:   Stopped,
		sounds:  DefaultSounds,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.clock, c.remaining = clock.Spawn(ctx, c.clockOpts...)
	c.remaining.Store(c.lengths[0].Focus)
	return c, nil
}

// Close shuts the clock down. The controller must not be used afterwards.
func (c *Controller) Close() {
	c.clock.Close()
}

// Remaining returns the shared counter. Callers should only read it.
func (c *Controller) Remaining() *clock.Counter {
	return c.remaining
}

func (c *Controller) Phase() Phase       { return c.phase }
func (c *Controller) RunState() RunState { return c.state }
func (c *Controller) Position() int      { return c.position }

// Lengths returns a copy of the configured rounds.
func (c *Controller) Lengths() []PhaseLength {
	return slices.Clone(c.lengths)
}

// SetSounds replaces the sounds used for future notifications.
func (c *Controller) SetSounds(s Sounds) {
	c.sounds = s
}

// Snapshot returns the state needed to render one frame.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Phase:     c.phase,
		RunState:  c.state,
		Remaining: c.remaining.Load(),
		Position:  c.position,
		Rounds:    len(c.lengths),
		Length:    c.lengths[c.position],
	}
}

// Start begins counting the current phase from its full duration.
// Announcement phases keep whatever the counter holds.
func (c *Controller) Start() error {
	if c.state != Stopped {
		return fmt.Errorf("start while %s: %w", c.state, ErrInvalidState)
	}
	switch c.phase {
	case PhaseFocus:
		c.remaining.Store(c.lengths[c.position].Focus)
	case PhaseRelax:
		c.remaining.Store(c.lengths[c.position].Relax)
	}
	c.clock.Activate()
	c.state = Running
	c.emit(EventStart)
	return nil
}

// Pause freezes the countdown, keeping the remaining time.
func (c *Controller) Pause() error {
	if c.state != Running {
		return fmt.Errorf("pause while %s: %w", c.state, ErrInvalidState)
	}
	c.clock.Deactivate()
	c.state = Paused
	c.emit(EventPause)
	return nil
}

// Resume continues a paused countdown.
func (c *Controller) Resume() error {
	if c.state != Paused {
		return fmt.Errorf("resume while %s: %w", c.state, ErrInvalidState)
	}
	c.clock.Activate()
	c.state = Running
	c.emit(EventResume)
	return nil
}

// Stop halts the countdown without touching counter, position or phase.
func (c *Controller) Stop() {
	c.clock.Deactivate()
	c.state = Stopped
	c.emit(EventStop)
}

// Reset stops the countdown and returns to the start of the first round.
func (c *Controller) Reset() {
	c.clock.Deactivate()
	c.state = Stopped
	c.remaining.Store(0)
	c.position = 0
	c.phase = PhaseBeforeFocus
	c.emit(EventReset)
}

// Toggle is the single play/pause action. A stopped timer advances to the
// next phase and starts; a running timer pauses; a paused timer resumes.
func (c *Controller) Toggle() error {
	switch c.state {
	case Stopped:
		c.phase = c.phase.Next()
		return c.Start()
	case Running:
		return c.Pause()
	default:
		return c.Resume()
	}
}

// Check is called by the polling loop. When the counter has reached zero it
// moves the state machine across the phase boundary and returns the
// notification to show. focused reports whether the user is looking at the
// timer; a finished focus block then rolls straight into relax.
func (c *Controller) Check(focused bool) *Notification {
	if c.remaining.Load() != 0 {
		return nil
	}

	switch c.phase {
	case PhaseFocus:
		length := c.lengths[c.position]
		c.phase = PhaseBeforeRelax
		c.halt()
		c.remaining.Store(length.Relax)
		c.emitComplete(PhaseFocus, c.position, length.Focus)
		n := &Notification{
			Kind:     NotifyBeforeRelax,
			TitleKey: "before-relax",
			SoundID:  c.sounds.EndOfFocus,
		}
		if focused {
			debug.Logf("timer: focused, continuing into relax")
			c.phase = PhaseRelax
			if err := c.Start(); err != nil {
				debug.Logf("timer: auto-continue: %v", err)
			}
		}
		return n

	case PhaseRelax:
		finished := c.position
		c.position = (c.position + 1) % len(c.lengths)
		c.phase = PhaseBeforeFocus
		c.halt()
		c.remaining.Store(c.lengths[c.position].Focus)
		c.emitComplete(PhaseRelax, finished, c.lengths[finished].Relax)
		return &Notification{
			Kind:     NotifyBeforeFocus,
			TitleKey: "after-relax",
			BodyKey:  "before-focus",
			SoundID:  c.sounds.EndOfRelax,
		}
	}
	return nil
}

// halt stops the countdown at a block boundary. The complete event that
// follows reports it, so no stop event is emitted.
func (c *Controller) halt() {
	c.clock.Deactivate()
	c.state = Stopped
}

func (c *Controller) emit(kind EventKind) {
	debug.Logf("timer: %s phase=%s state=%s position=%d remaining=%d",
		kind, c.phase, c.state, c.position, c.remaining.Load())
	if c.observer == nil {
		return
	}
	c.observer(Event{Kind: kind, Phase: c.phase, Position: c.position})
}

func (c *Controller) emitComplete(finished Phase, position int, duration uint32) {
	debug.Logf("timer: completed %s of round %d", finished, position+1)
	if c.observer == nil {
		return
	}
	c.observer(Event{Kind: EventComplete, Phase: finished, Position: position, Duration: duration})
}
