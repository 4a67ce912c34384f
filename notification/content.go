package notification

import (
	"fmt"

	"stopwatch/stopwatch"
)

const (
	NotificationID = "stopwatch"

	TitleRunning = "Stopwatch Running"
	TitlePaused  = "Stopwatch Paused"
)

// DefaultChannel is a low importance channel so updates do not alert.
var DefaultChannel = Channel{ID: "stopwatch", Name: "Stopwatch Channel", Importance: 1}

var (
	pauseAction  = Action{Label: "Pause", ActionID: string(stopwatch.CommandPause)}
	resumeAction = Action{Label: "Resume", ActionID: string(stopwatch.CommandResume)}
	stopAction   = Action{Label: "Stop", ActionID: string(stopwatch.CommandStop)}
)

// Build renders the notification for a running or paused snapshot. An idle
// stopwatch has no notification, which callers handle by cancelling.
func Build(snap stopwatch.Snapshot) Content {
	c := Content{
		ID:        NotificationID,
		ChannelID: DefaultChannel.ID,
		Body:      stopwatch.Format(snap.Elapsed),
	}
	if snap.Status == stopwatch.Paused {
		c.Title = TitlePaused
		c.Actions = []Action{resumeAction, stopAction}
	} else {
		c.Title = TitleRunning
		c.Actions = []Action{pauseAction, stopAction}
	}
	return c
}

// ParseAction maps a pressed button id to an engine command. Only pause,
// resume and stop exist as notification actions.
func ParseAction(actionID string) (stopwatch.Command, error) {
	cmd, err := stopwatch.ParseCommand(actionID)
	if err != nil {
		return "", err
	}
	if cmd == stopwatch.CommandStart {
		return "", fmt.Errorf("%w: %q is not a notification action", stopwatch.ErrUnknownCommand, actionID)
	}
	return cmd, nil
}
