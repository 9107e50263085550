package ipc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rbright/zwatch/internal/zone"
)

// Separator splits the zone name from the command token in a frame.
const Separator = ":"

var ErrMalformedFrame = errors.New("malformed command frame")

// Message is one command addressed to a zone.
type Message struct {
	Zone    string
	Command zone.Command
}

// Frame renders the wire bytes: zone, separator, command, no trailing delimiter.
func (m Message) Frame() []byte {
	return []byte(m.Zone + Separator + string(m.Command))
}

func (m Message) String() string {
	return m.Zone + Separator + string(m.Command)
}

// ParseMessage splits a frame on its first separator.
func ParseMessage(frame []byte) (Message, error) {
	name, command, found := strings.Cut(string(frame), Separator)
	if !found {
		return Message{}, fmt.Errorf("%w: missing %q in %q", ErrMalformedFrame, Separator, frame)
	}
	if name == "" {
		return Message{}, fmt.Errorf("%w: empty zone in %q", ErrMalformedFrame, frame)
	}
	return Message{Zone: name, Command: zone.Command(command)}, nil
}
