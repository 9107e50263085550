// Package fsm defines the daemon lifecycle state machine.
package fsm

import "fmt"

type State string

type Event string

const (
	StateStarting     State = "starting"
	StateSubscribed   State = "subscribed"
	StateRunning      State = "running"
	StateShuttingDown State = "shutting_down"
	StateTerminated   State = "terminated"
)

const (
	EventSubscribe Event = "subscribe"
	EventRun       Event = "run"
	EventShutdown  Event = "shutdown"
	EventTerminate Event = "terminate"
	EventFail      Event = "fail"
)

// States lists every lifecycle state in order.
var States = []State{StateStarting, StateSubscribed, StateRunning, StateShuttingDown, StateTerminated}

func Transition(current State, event Event) (State, error) {
	switch current {
	case StateStarting:
		switch event {
		case EventSubscribe:
			return StateSubscribed, nil
		case EventFail:
			return StateTerminated, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateSubscribed:
		switch event {
		case EventRun:
			return StateRunning, nil
		case EventShutdown:
			return StateShuttingDown, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateRunning:
		switch event {
		case EventShutdown:
			return StateShuttingDown, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateShuttingDown:
		switch event {
		case EventTerminate:
			return StateTerminated, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateTerminated:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
