// Package clock implements the background countdown that decrements a shared
// counter once per tick while active.
//
// Activation is level-triggered: Activate and Deactivate drop a value into a
// single-slot mailbox, and the clock goroutine polls that mailbox once per
// tick, keeping its previous state when nothing new arrived. Rapid toggles
// therefore collapse into the last one sent.
package clock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexander-akhmetov/pomodoro/internal/debug"
)

// DefaultInterval is the real-time length of one tick.
const DefaultInterval = time.Second

// Option configures a Clock.
type Option func(*options)

type options struct {
	interval time.Duration
	ticks    <-chan time.Time
}

// WithInterval overrides the tick period.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithTicks makes the clock advance on values received from ticks instead of
// a wall-clock ticker. Closing ticks stops the clock.
func WithTicks(ticks <-chan time.Time) Option {
	return func(o *options) {
		o.ticks = ticks
	}
}

// Clock is the handle used to switch a running countdown on and off.
type Clock struct {
	counter *Counter
	signals chan bool
	sendMu  sync.Mutex

	cancel    context.CancelFunc
	done      chan struct{}
	stopped   atomic.Bool
	closeOnce sync.Once
}

// Spawn starts the countdown goroutine and returns its handle together with
// the counter it decrements. The counter starts at zero and the clock starts
// inactive. The goroutine exits when ctx is cancelled or Close is called.
func Spawn(ctx context.Context, opts ...Option) (*Clock, *Counter) {
	o := options{interval: DefaultInterval}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(ctx)
	c := &Clock{
		counter: &Counter{},
		signals: make(chan bool, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	ticks := o.ticks
	var ticker *time.Ticker
	if ticks == nil {
		ticker = time.NewTicker(o.interval)
		ticks = ticker.C
	}

	go c.run(ctx, ticks, ticker)
	return c, c.counter
}

func (c *Clock) run(ctx context.Context, ticks <-chan time.Time, ticker *time.Ticker) {
	defer close(c.done)
	defer c.stopped.Store(true)
	if ticker != nil {
		defer ticker.Stop()
	}

	active := false
	for {
		select {
		case <-ctx.Done():
			debug.Logf("clock: shutting down: %v", ctx.Err())
			return
		case _, ok := <-ticks:
			if !ok {
				debug.Logf("clock: tick source closed")
				return
			}
			select {
			case active = <-c.signals:
			default:
			}
			if active {
				c.counter.Decrement()
			}
		}
	}
}

// Activate asks the clock to start decrementing. It never blocks; the change
// takes effect on the next tick.
func (c *Clock) Activate() {
	c.send(true)
}

// Deactivate asks the clock to stop decrementing. It never blocks.
func (c *Clock) Deactivate() {
	c.send(false)
}

// send replaces whatever is in the mailbox with active. Sending after the
// goroutine is gone is a lifecycle bug and panics.
func (c *Clock) send(active bool) {
	if c.stopped.Load() {
		panic("clock: activation signal sent after shutdown")
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	for {
		select {
		case c.signals <- active:
			return
		default:
		}
		select {
		case <-c.signals:
		default:
		}
	}
}

// Counter returns the counter decremented by this clock.
func (c *Clock) Counter() *Counter {
	return c.counter
}

// Done is closed once the clock goroutine has exited.
func (c *Clock) Done() <-chan struct{} {
	return c.done
}

// Close stops the goroutine and waits for it to exit. It is safe to call
// more than once.
func (c *Clock) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		<-c.done
	})
}
