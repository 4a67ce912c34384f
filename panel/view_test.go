package panel

import (
	"bytes"
	"strings"
	"testing"

	"stopwatch/network/messages"
	"stopwatch/notification"
	"stopwatch/stopwatch"
)

func display(seq uint64, status stopwatch.Status, elapsed uint64) messages.NotificationDisplay {
	return messages.NotificationDisplay{
		Sequence: seq,
		Content:  notification.Build(stopwatch.Snapshot{Status: status, Elapsed: elapsed}),
	}
}

func TestViewDropsStaleUpdates(t *testing.T) {
	var out bytes.Buffer
	v := NewView(&out)

	if !v.Display(display(2, stopwatch.Running, 100)) {
		t.Fatal("first display should apply")
	}
	if v.Display(display(1, stopwatch.Paused, 50)) {
		t.Fatal("older display should be dropped")
	}
	if v.Cancel(messages.NotificationCancel{Sequence: 2}) {
		t.Fatal("cancel with a seen sequence should be dropped")
	}
	if !v.Offers("pause") || v.Offers("resume") {
		t.Fatal("expected the running notification to still be shown")
	}

	got := out.String()
	if !strings.Contains(got, "Stopwatch Running") || !strings.Contains(got, "0:01.00") || !strings.Contains(got, "[x] Stop") {
		t.Fatalf("unexpected output %q", got)
	}
	if strings.Contains(got, "Paused") {
		t.Fatalf("stale display was printed: %q", got)
	}
}

func TestViewCancel(t *testing.T) {
	var out bytes.Buffer
	v := NewView(&out)

	v.Display(display(1, stopwatch.Paused, 0))
	if !v.Offers("resume") || !v.Offers("stop") {
		t.Fatal("paused notification should offer resume and stop")
	}
	if !v.Cancel(messages.NotificationCancel{Sequence: 2, NotificationID: "stopwatch"}) {
		t.Fatal("newer cancel should apply")
	}
	if v.Offers("stop") {
		t.Fatal("cleared notification offers nothing")
	}
	if !strings.Contains(out.String(), "cleared") {
		t.Fatalf("expected cleared line, got %q", out.String())
	}
}

func TestViewFollowsRestartedWatch(t *testing.T) {
	var out bytes.Buffer
	v := NewView(&out)

	for seq := uint64(1); seq <= 40; seq++ {
		msg := display(seq, stopwatch.Running, seq)
		msg.Epoch = 7
		v.Display(msg)
	}
	v.Cancel(messages.NotificationCancel{Epoch: 7, Sequence: 41})

	// the new process counts from 1 again
	msg := display(1, stopwatch.Running, 0)
	msg.Epoch = 8
	if !v.Display(msg) {
		t.Fatal("display from a restarted watch should apply")
	}
	if !v.Offers("pause") {
		t.Fatal("expected the new notification to offer pause")
	}

	stale := display(2, stopwatch.Paused, 0)
	stale.Epoch = 8
	v.Display(stale)
	if v.Display(stale) {
		t.Fatal("repeated sequence within an epoch should be dropped")
	}
}
