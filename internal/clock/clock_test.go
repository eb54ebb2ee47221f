package clock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manual returns a clock driven by an unbuffered tick channel. A send on the
// returned channel completes only once the clock goroutine has picked it up,
// so every tick before the last one is fully applied when send returns.
func manual(t *testing.T) (*Clock, *Counter, chan time.Time) {
	t.Helper()
	ticks := make(chan time.Time)
	c, counter := Spawn(context.Background(), WithTicks(ticks))
	t.Cleanup(c.Close)
	return c, counter, ticks
}

func tick(ticks chan<- time.Time, n int) {
	for range n {
		ticks <- time.Time{}
	}
}

func eventuallyEqual(t *testing.T, counter *Counter, want uint32) {
	t.Helper()
	require.Eventually(t, func() bool { return counter.Load() == want },
		time.Second, time.Millisecond, "counter = %d, want %d", counter.Load(), want)
}

func TestCounterDecrementStopsAtZero(t *testing.T) {
	var c Counter
	c.Store(2)

	assert.True(t, c.Decrement())
	assert.True(t, c.Decrement())
	assert.False(t, c.Decrement())
	assert.Equal(t, uint32(0), c.Load())
}

func TestCounterConcurrentDecrement(t *testing.T) {
	var c Counter
	c.Store(500)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c.Decrement()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint32(0), c.Load())
}

func TestSpawnStartsInactiveAtZero(t *testing.T) {
	_, counter, ticks := manual(t)
	assert.Equal(t, uint32(0), counter.Load())

	counter.Store(5)
	tick(ticks, 3)
	eventuallyEqual(t, counter, 5)
}

func TestActiveClockDecrementsOncePerTick(t *testing.T) {
	c, counter, ticks := manual(t)
	counter.Store(10)
	c.Activate()

	for want := uint32(9); want > 6; want-- {
		tick(ticks, 1)
		eventuallyEqual(t, counter, want)
	}
}

func TestActiveClockNeverGoesBelowZero(t *testing.T) {
	c, counter, ticks := manual(t)
	counter.Store(3)
	c.Activate()

	tick(ticks, 10)
	eventuallyEqual(t, counter, 0)
}

func TestDeactivatePreservesValue(t *testing.T) {
	c, counter, ticks := manual(t)
	counter.Store(10)
	c.Activate()
	tick(ticks, 4)
	eventuallyEqual(t, counter, 6)

	c.Deactivate()
	tick(ticks, 20)
	eventuallyEqual(t, counter, 6)

	c.Activate()
	tick(ticks, 1)
	eventuallyEqual(t, counter, 5)
}

func TestLastSignalWins(t *testing.T) {
	c, counter, ticks := manual(t)
	counter.Store(10)

	c.Activate()
	c.Deactivate()
	c.Activate()
	c.Deactivate()
	tick(ticks, 3)
	eventuallyEqual(t, counter, 10)

	c.Deactivate()
	c.Activate()
	tick(ticks, 3)
	eventuallyEqual(t, counter, 7)
}

func TestSignalsNeverBlock(t *testing.T) {
	c, _, _ := manual(t)

	done := make(chan struct{})
	go func() {
		for range 1000 {
			c.Activate()
			c.Deactivate()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Activate/Deactivate blocked without a consumer draining signals")
	}
}

func TestCloseStopsGoroutine(t *testing.T) {
	c, _, _ := manual(t)
	c.Close()

	select {
	case <-c.Done():
	default:
		t.Fatal("Done should be closed after Close")
	}
	assert.NotPanics(t, c.Close)
}

func TestContextCancelStopsGoroutine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c, _ := Spawn(ctx, WithTicks(make(chan time.Time)))
	cancel()

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("clock did not stop after context cancel")
	}
}

func TestSignalAfterShutdownPanics(t *testing.T) {
	c, _, _ := manual(t)
	c.Close()

	assert.Panics(t, c.Activate)
	assert.Panics(t, c.Deactivate)
}

func TestWallClockInterval(t *testing.T) {
	c, counter := Spawn(context.Background(), WithInterval(5*time.Millisecond))
	t.Cleanup(c.Close)
	counter.Store(3)
	c.Activate()

	require.Eventually(t, func() bool { return counter.Load() == 0 }, 2*time.Second, 5*time.Millisecond)
	assert.Same(t, counter, c.Counter())
}
