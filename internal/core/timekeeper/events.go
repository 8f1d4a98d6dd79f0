package timekeeper

import "time"

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	// EventStateChange signals a start/stop/reset/restore transition.
	EventStateChange EventType = "state_change"
	// EventProgress is the once-per-second refresh while a run counts down.
	EventProgress EventType = "progress"
	// EventCompleted fires exactly once per run, from the completion alarm
	// or from restore-time reconciliation.
	EventCompleted EventType = "completed"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type      EventType
	Running   bool
	Remaining int // seconds
	Duration  int // minutes
	At        time.Time
}
