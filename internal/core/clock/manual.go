package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Clock for tests. Time only moves when Advance is called; due
// one-shot timers fire synchronously inside Advance, in deadline order.
// Tickers created from a Manual clock never fire on their own, so tests
// drive periodic work directly.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

// NewManual creates a Manual clock positioned at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current simulated time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc registers fn to run once the simulated clock passes d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	timer := &manualTimer{
		clock:    m,
		deadline: m.now.Add(d),
		fn:       fn,
	}
	m.timers = append(m.timers, timer)
	return timer
}

// NewTicker returns an inert ticker; Manual-driven code under test is
// expected to be ticked explicitly.
func (m *Manual) NewTicker(d time.Duration) Ticker {
	return &manualTicker{ch: make(chan time.Time)}
}

// Advance moves the clock forward by d and fires every timer whose deadline
// has been reached. Callbacks run without the clock lock held, so they may
// schedule new timers or read Now.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	now := m.now

	var due []*manualTimer
	var pending []*manualTimer
	for _, timer := range m.timers {
		if timer.stopped {
			continue
		}
		if !timer.deadline.After(now) {
			timer.stopped = true
			due = append(due, timer)
		} else {
			pending = append(pending, timer)
		}
	}
	m.timers = pending
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, timer := range due {
		timer.fn()
	}
}

type manualTimer struct {
	clock    *Manual
	deadline time.Time
	fn       func()
	stopped  bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped
	t.stopped = true
	return active
}

type manualTicker struct {
	ch chan time.Time
}

func (t *manualTicker) C() <-chan time.Time {
	return t.ch
}

func (t *manualTicker) Stop() {}
