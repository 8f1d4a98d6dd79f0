package model

import "time"

// Duration limits for a session, in minutes.
const (
	MinDurationMinutes     = 1
	MaxDurationMinutes     = 180
	DefaultDurationMinutes = 25
)

// TimerState is the persisted countdown record. It is the single source of
// truth shared between the timekeeper and the popup view; coordination is
// last-writer-wins, with the timekeeper owning TimeRemaining while a run is
// active and the UI owning it while idle.
type TimerState struct {
	Duration      int    `json:"duration"`
	TimeRemaining int    `json:"timeRemaining"`
	IsRunning     bool   `json:"isRunning"`
	StartTime     *int64 `json:"startTime"`
	PausedTime    int    `json:"pausedTime"`
}

// DefaultState returns an idle timer at the default session length.
func DefaultState() TimerState {
	return TimerState{
		Duration:      DefaultDurationMinutes,
		TimeRemaining: DefaultDurationMinutes * 60,
	}
}

// ValidDuration reports whether minutes is an acceptable session length.
func ValidDuration(minutes int) bool {
	return minutes >= MinDurationMinutes && minutes <= MaxDurationMinutes
}

// Normalize clamps a loaded record back into its invariants:
// duration within range, 0 <= timeRemaining <= duration*60, and a running
// timer always carries a start timestamp.
func (state TimerState) Normalize() TimerState {
	if state.Duration < MinDurationMinutes {
		state.Duration = DefaultDurationMinutes
	}
	if state.Duration > MaxDurationMinutes {
		state.Duration = MaxDurationMinutes
	}
	if state.TimeRemaining < 0 {
		state.TimeRemaining = 0
	}
	if limit := state.Duration * 60; state.TimeRemaining > limit {
		state.TimeRemaining = limit
	}
	if state.PausedTime < 0 {
		state.PausedTime = 0
	}
	if state.IsRunning && (state.StartTime == nil || state.TimeRemaining == 0) {
		state.IsRunning = false
		state.StartTime = nil
	}
	if !state.IsRunning {
		state.StartTime = nil
	}
	return state
}

// Reconcile recomputes the true remaining time of a stored run from its
// start timestamp instead of trusting the last written counter, covering
// the gap while no process was counting. The second return value reports
// whether the run completed during that gap.
func Reconcile(state TimerState, now time.Time) (TimerState, bool) {
	if !state.IsRunning || state.StartTime == nil {
		return state, false
	}

	elapsed := int((now.UnixMilli() - *state.StartTime) / 1000)
	if elapsed < 0 {
		// Clock went backwards; keep the stored counter.
		elapsed = 0
	}

	remaining := state.TimeRemaining - elapsed
	if remaining <= 0 {
		state.IsRunning = false
		state.TimeRemaining = 0
		state.StartTime = nil
		return state, true
	}

	state.TimeRemaining = remaining
	return state, false
}
