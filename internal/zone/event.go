// Package zone models zone lifecycle transitions and maps them to relay commands.
package zone

import "time"

// State is a zone lifecycle state name as reported by the platform.
type State string

const (
	StateConfigured    State = "configured"
	StateIncomplete    State = "incomplete"
	StateInstalled     State = "installed"
	StateUninitialized State = "uninitialized"
	StateInitialized   State = "initialized"
	StateReady         State = "ready"
	StateBooting       State = "booting"
	StateRunning       State = "running"
	StateShuttingDown  State = "shutting_down"
	StateEmpty         State = "empty"
	StateDown          State = "down"
	StateDying         State = "dying"
	StateDead          State = "dead"
)

// Event is one zone state transition delivered by a notification source.
type Event struct {
	Zone     string
	ZoneID   int
	NewState State
	OldState State
	When     time.Time
}
