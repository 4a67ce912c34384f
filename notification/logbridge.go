package notification

import (
	"context"
	"io"
	"log"
	"strings"
)

// LogBridge writes notifications as log lines. It has no buttons, so
// Actions returns nil.
type LogBridge struct {
	logger *log.Logger
}

func NewLogBridge(w io.Writer) *LogBridge {
	return &LogBridge{logger: log.New(w, "[NOTIFICATION] ", log.LstdFlags)}
}

func (b *LogBridge) Setup(_ context.Context, ch Channel) error {
	b.logger.Printf("channel %s (%s) ready", ch.ID, ch.Name)
	return nil
}

func (b *LogBridge) Display(_ context.Context, c Content) error {
	labels := make([]string, 0, len(c.Actions))
	for _, a := range c.Actions {
		labels = append(labels, a.Label)
	}
	b.logger.Printf("%s: %s [%s]", c.Title, c.Body, strings.Join(labels, " | "))
	return nil
}

func (b *LogBridge) Cancel(_ context.Context, notificationID string) error {
	b.logger.Printf("%s cancelled", notificationID)
	return nil
}

func (b *LogBridge) Actions() <-chan string {
	return nil
}
