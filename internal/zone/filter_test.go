package zone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandForQualifyingTransitions(t *testing.T) {
	cmd, ok := CommandFor(StateReady, StateRunning)
	require.True(t, ok)
	require.Equal(t, CommandStart, cmd)

	cmd, ok = CommandFor(StateRunning, StateShuttingDown)
	require.True(t, ok)
	require.Equal(t, CommandStop, cmd)
}

func TestCommandForMatrix(t *testing.T) {
	states := []State{
		StateUninitialized,
		StateInitialized,
		StateReady,
		StateBooting,
		StateRunning,
		StateShuttingDown,
		StateEmpty,
		StateDown,
		StateDying,
		StateDead,
		State(""),
		State("mystery"),
	}

	for _, oldState := range states {
		for _, newState := range states {
			cmd, ok := CommandFor(oldState, newState)
			switch {
			case oldState == StateReady && newState == StateRunning:
				require.True(t, ok)
				require.Equal(t, CommandStart, cmd)
			case oldState == StateRunning && newState == StateShuttingDown:
				require.True(t, ok)
				require.Equal(t, CommandStop, cmd)
			default:
				require.False(t, ok, "%s -> %s", oldState, newState)
				require.Equal(t, CommandNone, cmd, "%s -> %s", oldState, newState)
			}
		}
	}
}

func TestCommandForIgnoresRepeatsAndReversals(t *testing.T) {
	tests := []struct {
		name string
		old  State
		new  State
	}{
		{name: "running repeat", old: StateRunning, new: StateRunning},
		{name: "shutting down repeat", old: StateShuttingDown, new: StateShuttingDown},
		{name: "ready repeat", old: StateReady, new: StateReady},
		{name: "reversed start", old: StateRunning, new: StateReady},
		{name: "reversed stop", old: StateShuttingDown, new: StateRunning},
		{name: "case sensitive", old: State("READY"), new: State("RUNNING")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, ok := CommandFor(tc.old, tc.new)
			require.False(t, ok)
			require.Equal(t, CommandNone, cmd)
		})
	}
}

func TestCommandForIsIdempotent(t *testing.T) {
	first, firstOK := CommandFor(StateReady, StateRunning)
	second, secondOK := CommandFor(StateReady, StateRunning)
	require.Equal(t, first, second)
	require.Equal(t, firstOK, secondOK)
}

func TestEventCommand(t *testing.T) {
	cmd, ok := Event{Zone: "z1", OldState: StateRunning, NewState: StateShuttingDown}.Command()
	require.True(t, ok)
	require.Equal(t, CommandStop, cmd)
}

func TestCommandString(t *testing.T) {
	require.Equal(t, "start", CommandStart.String())
	require.Equal(t, "stop", CommandStop.String())
	require.Equal(t, "none", CommandNone.String())
}
