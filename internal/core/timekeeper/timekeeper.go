package timekeeper

import (
	"errors"
	"log"
	"sync"
	"time"

	"pomodoro/internal/core/clock"
	"pomodoro/internal/core/model"
)

// ErrRunning indicates an operation is not allowed while a run is active.
var ErrRunning = errors.New("timer is running")

// ErrNoTime indicates a start request with nothing left to count down.
var ErrNoTime = errors.New("no time remaining")

// ErrDurationRange indicates a session length outside the allowed range.
var ErrDurationRange = errors.New("duration out of range")

// Store persists the timer record between runs and process restarts.
type Store interface {
	LoadState() (model.TimerState, error)
	SaveState(state model.TimerState) error
}

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
}

// TimeKeeper owns the authoritative countdown. Completion is driven by a
// one-shot alarm scheduled for the full remaining time; the per-second
// refresh ticker only decrements the persisted counter for display, so it
// may drift or be suspended without affecting when the run ends.
type TimeKeeper struct {
	mu      sync.Mutex
	clk     clock.Clock
	store   Store
	options Config
	state   model.TimerState
	alarm   clock.Timer
	stopCh  chan struct{}
	ticking bool
	events  []chan Event
	closed  bool
}

// New creates a TimeKeeper in the default idle state.
func New(store Store, clk clock.Clock, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	return &TimeKeeper{
		clk:     clk,
		store:   store,
		options: options,
		state:   model.DefaultState(),
	}
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// State returns a copy of the current timer record.
func (keeper *TimeKeeper) State() model.TimerState {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.state
}

// Restore loads the persisted record and reconciles an in-flight run
// against the wall clock: a run whose remaining time has elapsed while no
// process was counting is finalized as completed, anything else resumes
// from the recomputed position.
func (keeper *TimeKeeper) Restore() error {
	loaded, err := keeper.store.LoadState()

	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if err != nil {
		keeper.emitLocked(keeper.eventLocked(EventStateChange))
		return err
	}

	state := loaded.Normalize()
	if !state.IsRunning {
		keeper.state = state
		keeper.emitLocked(keeper.eventLocked(EventStateChange))
		return nil
	}

	reconciled, completed := model.Reconcile(state, keeper.clk.Now())
	if completed {
		keeper.state = reconciled
		keeper.saveStateLocked()
		keeper.emitLocked(keeper.eventLocked(EventCompleted))
		return nil
	}

	keeper.state = reconciled
	keeper.startRunLocked(reconciled.TimeRemaining)
	return nil
}

// StartRun begins counting down from remaining seconds. It schedules the
// completion alarm, starts the refresh ticker and persists the new state.
func (keeper *TimeKeeper) StartRun(remaining int) error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if remaining <= 0 {
		return ErrNoTime
	}
	if limit := keeper.state.Duration * 60; remaining > limit {
		remaining = limit
	}

	keeper.startRunLocked(remaining)
	return nil
}

// StopRun cancels the countdown, preserving the current remaining time.
func (keeper *TimeKeeper) StopRun() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	keeper.cancelRefreshLocked()
	keeper.cancelAlarmLocked()

	if keeper.state.IsRunning {
		keeper.state.IsRunning = false
		keeper.state.StartTime = nil
		keeper.saveStateLocked()
	}
	keeper.emitLocked(keeper.eventLocked(EventStateChange))
	return nil
}

// ResetRun cancels the countdown and restores the full session length.
// Calling it on an already idle timer is a no-op with the same outcome.
func (keeper *TimeKeeper) ResetRun() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	keeper.cancelRefreshLocked()
	keeper.cancelAlarmLocked()

	keeper.state.IsRunning = false
	keeper.state.StartTime = nil
	keeper.state.TimeRemaining = keeper.state.Duration * 60
	keeper.saveStateLocked()
	keeper.emitLocked(keeper.eventLocked(EventStateChange))
	return nil
}

// SetDuration changes the session length. Rejected while a run is active.
func (keeper *TimeKeeper) SetDuration(minutes int) error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if keeper.state.IsRunning {
		return ErrRunning
	}
	if !model.ValidDuration(minutes) {
		return ErrDurationRange
	}

	keeper.state.Duration = minutes
	keeper.state.TimeRemaining = minutes * 60
	keeper.saveStateLocked()
	keeper.emitLocked(keeper.eventLocked(EventStateChange))
	return nil
}

// Close cancels any active run and closes all observer channels.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.closed = true
	keeper.cancelRefreshLocked()
	keeper.cancelAlarmLocked()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) startRunLocked(remaining int) {
	keeper.cancelRefreshLocked()
	keeper.cancelAlarmLocked()

	startedAt := keeper.clk.Now().UnixMilli()
	keeper.state.IsRunning = true
	keeper.state.TimeRemaining = remaining
	keeper.state.StartTime = &startedAt
	keeper.saveStateLocked()

	keeper.alarm = keeper.clk.AfterFunc(time.Duration(remaining)*time.Second, keeper.handleAlarm)

	stopCh := make(chan struct{})
	keeper.stopCh = stopCh
	keeper.ticking = true
	go keeper.run(keeper.clk.NewTicker(keeper.options.TickInterval), stopCh)

	keeper.emitLocked(keeper.eventLocked(EventStateChange))
}

// handleAlarm is the authoritative completion path; the refresh counter
// reaching zero on its own never ends a run.
func (keeper *TimeKeeper) handleAlarm() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if !keeper.state.IsRunning {
		return
	}

	keeper.cancelRefreshLocked()
	keeper.state.IsRunning = false
	keeper.state.TimeRemaining = 0
	keeper.state.StartTime = nil
	keeper.saveStateLocked()
	keeper.emitLocked(keeper.eventLocked(EventCompleted))
}

func (keeper *TimeKeeper) run(ticker clock.Ticker, stopCh chan struct{}) {
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C():
			keeper.tick()
		}
	}
}

func (keeper *TimeKeeper) tick() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if !keeper.state.IsRunning {
		return
	}
	if keeper.state.TimeRemaining > 0 {
		keeper.state.TimeRemaining--
	}
	keeper.saveStateLocked()
	keeper.emitLocked(keeper.eventLocked(EventProgress))
}

// cancelRefreshLocked must run before cancelAlarmLocked wherever both are
// cancelled: a refresh tick surviving its alarm could write a stale counter
// over a reset record.
func (keeper *TimeKeeper) cancelRefreshLocked() {
	if !keeper.ticking {
		return
	}
	keeper.ticking = false
	close(keeper.stopCh)
	keeper.stopCh = nil
}

func (keeper *TimeKeeper) cancelAlarmLocked() {
	if keeper.alarm != nil {
		keeper.alarm.Stop()
		keeper.alarm = nil
	}
}

func (keeper *TimeKeeper) saveStateLocked() {
	if err := keeper.store.SaveState(keeper.state); err != nil {
		log.Printf("save timer state: %v", err)
	}
}

func (keeper *TimeKeeper) eventLocked(eventType EventType) Event {
	return Event{
		Type:      eventType,
		Running:   keeper.state.IsRunning,
		Remaining: keeper.state.TimeRemaining,
		Duration:  keeper.state.Duration,
		At:        keeper.clk.Now(),
	}
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
