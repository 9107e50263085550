package ipc

import (
	"testing"

	"github.com/rbright/zwatch/internal/zone"
	"github.com/stretchr/testify/require"
)

func TestMessageFrame(t *testing.T) {
	msg := Message{Zone: "z1", Command: zone.CommandStart}
	require.Equal(t, []byte("z1:start"), msg.Frame())
	require.Equal(t, "z1:start", msg.String())
}

func TestParseMessageSplitsOnFirstSeparator(t *testing.T) {
	msg, err := ParseMessage([]byte("31128646-0233:stop:extra"))
	require.NoError(t, err)
	require.Equal(t, "31128646-0233", msg.Zone)
	require.Equal(t, zone.Command("stop:extra"), msg.Command)
}

func TestParseMessageErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  string
	}{
		{name: "empty", frame: "", want: "missing"},
		{name: "no separator", frame: "z1start", want: "missing"},
		{name: "empty zone", frame: ":start", want: "empty zone"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseMessage([]byte(tc.frame))
			require.ErrorIs(t, err, ErrMalformedFrame)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}
