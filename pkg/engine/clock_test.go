package engine

import (
	"sync"
	"time"
)

// fakeClock replaces time.AfterFunc with manually fired timers.
type fakeClock struct {
	mu      sync.Mutex
	pending []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *fakeClock) afterFunc(d time.Duration, fn func()) stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, delay: d, fn: fn}
	c.pending = append(c.pending, t)
	return t
}

// next pops the oldest live timer without firing it.
func (c *fakeClock) next() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.pending) > 0 {
		t := c.pending[0]
		c.pending = c.pending[1:]
		if !t.stopped {
			t.stopped = true
			return t
		}
	}
	return nil
}

// fire runs the oldest live timer synchronously. It reports false when
// nothing is armed.
func (c *fakeClock) fire() bool {
	t := c.next()
	if t == nil {
		return false
	}
	t.fn()
	return true
}

// armed returns the delay of the oldest live timer.
func (c *fakeClock) armed() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.pending {
		if !t.stopped {
			return t.delay, true
		}
	}
	return 0, false
}

func newFakeEngine(opts ...Option) (*Engine, *fakeClock) {
	c := &fakeClock{}
	e := New(opts...)
	e.afterFunc = c.afterFunc
	return e, c
}
