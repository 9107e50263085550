package zone

// Command is the normalized action relayed to the consumer.
type Command string

const (
	CommandNone  Command = ""
	CommandStart Command = "start"
	CommandStop  Command = "stop"
)

// String returns the wire token, or "none" for CommandNone.
func (c Command) String() string {
	if c == CommandNone {
		return "none"
	}
	return string(c)
}

// CommandFor maps an (old, new) state pair to a command.
//
// Only ready->running (start) and running->shutting_down (stop) qualify.
func CommandFor(oldState, newState State) (Command, bool) {
	switch {
	case oldState == StateReady && newState == StateRunning:
		return CommandStart, true
	case oldState == StateRunning && newState == StateShuttingDown:
		return CommandStop, true
	default:
		return CommandNone, false
	}
}

// Command returns the command derived from the event's transition.
func (e Event) Command() (Command, bool) {
	return CommandFor(e.OldState, e.NewState)
}
