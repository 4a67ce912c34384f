// Package notification mirrors stopwatch state into a system notification
// with inline pause/resume/stop actions. The notification surface itself is
// behind Bridge; this package decides what to show and when.
package notification

import "context"

// Action is an inline notification button.
type Action struct {
	Label    string `json:"label"`
	ActionID string `json:"action_id"`
}

// Content is one rendering of the notification.
type Content struct {
	ID        string   `json:"id"`
	ChannelID string   `json:"channel_id"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Actions   []Action `json:"actions"`
}

// Channel describes the notification channel created at setup.
type Channel struct {
	ID         string
	Name       string
	Importance int
}

// Bridge is a notification surface. Setup requests permission and creates
// the channel. Actions delivers the ids of pressed buttons; a bridge
// without inbound actions may return nil.
type Bridge interface {
	Setup(ctx context.Context, ch Channel) error
	Display(ctx context.Context, c Content) error
	Cancel(ctx context.Context, notificationID string) error
	Actions() <-chan string
}
