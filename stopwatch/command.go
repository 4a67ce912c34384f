package stopwatch

import (
	"errors"
	"fmt"
	"strings"
)

// Command is a user or notification request routed to the engine.
// The values are also the event names of the state machine.
type Command string

const (
	CommandStart  Command = "start"
	CommandPause  Command = "pause"
	CommandResume Command = "resume"
	CommandStop   Command = "stop"
)

var ErrUnknownCommand = errors.New("unknown command")

// ParseCommand maps an action id to a Command. Matching ignores case and
// surrounding whitespace.
func ParseCommand(id string) (Command, error) {
	switch cmd := Command(strings.ToLower(strings.TrimSpace(id))); cmd {
	case CommandStart, CommandPause, CommandResume, CommandStop:
		return cmd, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, id)
}
