package shell

import (
	"bufio"
	"context"
	"io"
	"log"
	"strings"

	"stopwatch/stopwatch"
)

var shortcuts = map[string]stopwatch.Command{
	"s": stopwatch.CommandStart,
	"p": stopwatch.CommandPause,
	"r": stopwatch.CommandResume,
	"x": stopwatch.CommandStop,
}

// Key returns the shortcut typed for cmd, or the command name if it has
// none.
func Key(cmd stopwatch.Command) string {
	for key, c := range shortcuts {
		if c == cmd {
			return key
		}
	}
	return string(cmd)
}

// ParseInput maps a typed line to a command. quit is true for "q" and
// "quit".
func ParseInput(line string) (cmd stopwatch.Command, quit bool, err error) {
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "q" || line == "quit" {
		return "", true, nil
	}
	if short, ok := shortcuts[line]; ok {
		return short, false, nil
	}
	cmd, err = stopwatch.ParseCommand(line)
	return cmd, false, err
}

// ReadCommands reads one command per line from r and sends it on
// commandTx. It returns nil on quit, io.EOF at the end of input, or
// ctx.Err() when cancelled. Blank and unknown lines are skipped.
func ReadCommands(ctx context.Context, r io.Reader, commandTx chan<- stopwatch.Command) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, quit, err := ParseInput(line)
		if quit {
			return nil
		}
		if err != nil {
			log.Printf("Ignoring input: %v", err)
			continue
		}

		select {
		case commandTx <- cmd:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}
