package panel

import (
	"fmt"
	"io"
	"strings"

	"stopwatch/network/messages"
	"stopwatch/notification"
	"stopwatch/shell"
	"stopwatch/stopwatch"
)

// View is the panel's copy of the notification. Updates older than the
// newest one seen are dropped. A new epoch means the watch restarted, and
// its sequence numbers are taken from scratch.
type View struct {
	out     io.Writer
	epoch   uint64
	lastSeq uint64
	current *notification.Content
}

func NewView(out io.Writer) *View {
	return &View{out: out}
}

// Display applies msg and reports whether it was newer than the view.
func (v *View) Display(msg messages.NotificationDisplay) bool {
	if !v.advance(msg.Epoch, msg.Sequence) {
		return false
	}
	content := msg.Content
	v.current = &content

	labels := make([]string, 0, len(content.Actions))
	for _, a := range content.Actions {
		labels = append(labels, fmt.Sprintf("[%s] %s", shell.Key(stopwatch.Command(a.ActionID)), a.Label))
	}
	fmt.Fprintf(v.out, "%-18s %s   %s\n", content.Title, content.Body, strings.Join(labels, "  "))
	return true
}

func (v *View) Cancel(msg messages.NotificationCancel) bool {
	if !v.advance(msg.Epoch, msg.Sequence) {
		return false
	}
	if v.current != nil {
		fmt.Fprintln(v.out, "(notification cleared)")
	}
	v.current = nil
	return true
}

// Offers reports whether the shown notification has a button for actionID.
func (v *View) Offers(actionID string) bool {
	if v.current == nil {
		return false
	}
	for _, a := range v.current.Actions {
		if a.ActionID == actionID {
			return true
		}
	}
	return false
}

func (v *View) advance(epoch, seq uint64) bool {
	if epoch != v.epoch {
		v.epoch, v.lastSeq = epoch, 0
	}
	if seq <= v.lastSeq {
		return false
	}
	v.lastSeq = seq
	return true
}
