package network

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"stopwatch/network/comm"
	"stopwatch/network/messages"
	"stopwatch/notification"
	"stopwatch/stopwatch"
)

func newPanelConn(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *net.UDPConn) (messages.MessageType, []byte) {
	t.Helper()
	buf := make([]byte, 2048)
	conn.SetReadDeadline(time.Now().Add(time.Second))
	n, _, err := conn.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	msgType, payload, err := comm.Decode(buf[:n])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return msgType, payload
}

func TestBridgeDisplayAndCancel(t *testing.T) {
	panel := newPanelConn(t)
	b, err := Listen("127.0.0.1:0", panel.LocalAddr().String())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	if err := b.Setup(ctx, notification.DefaultChannel); err != nil {
		t.Fatalf("setup: %v", err)
	}

	content := notification.Build(stopwatch.Snapshot{Status: stopwatch.Running, Elapsed: 1234})
	if err := b.Display(ctx, content); err != nil {
		t.Fatalf("display: %v", err)
	}
	msgType, payload := readEnvelope(t, panel)
	var display messages.NotificationDisplay
	if msgType != messages.MsgDisplay || json.Unmarshal(payload, &display) != nil {
		t.Fatalf("expected display, got %s %s", msgType, payload)
	}
	if display.Sequence != 1 || display.Content.Body != "0:12.34" || len(display.Content.Actions) != 2 {
		t.Fatalf("unexpected display %+v", display)
	}

	if err := b.Cancel(ctx, notification.NotificationID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	msgType, payload = readEnvelope(t, panel)
	var cancel messages.NotificationCancel
	if msgType != messages.MsgCancel || json.Unmarshal(payload, &cancel) != nil {
		t.Fatalf("expected cancel, got %s %s", msgType, payload)
	}
	if cancel.Epoch == 0 || cancel.Epoch != display.Epoch {
		t.Fatalf("expected one non-zero epoch, got %d and %d", display.Epoch, cancel.Epoch)
	}
	if cancel.Sequence != 2 || cancel.NotificationID != "stopwatch" {
		t.Fatalf("unexpected cancel %+v", cancel)
	}
}

func TestBridgeDeliversActions(t *testing.T) {
	panel := newPanelConn(t)
	b, err := Listen("127.0.0.1:0", panel.LocalAddr().String())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer b.Close()

	press := messages.ActionPress{MessageID: 5, ActionID: "pause"}
	if err := comm.SendMessage(panel, b.LocalAddr(), messages.MsgAction, press); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case id := <-b.Actions():
		if id != "pause" {
			t.Fatalf("expected pause, got %q", id)
		}
	case <-time.After(time.Second):
		t.Fatal("action not delivered")
	}

	if msgType, _ := readEnvelope(t, panel); msgType != messages.MsgAck {
		t.Fatalf("expected ack, got %s", msgType)
	}
}

func TestBridgeClosed(t *testing.T) {
	panel := newPanelConn(t)
	b, err := Listen("127.0.0.1:0", panel.LocalAddr().String())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	ctx := context.Background()
	if err := b.Setup(ctx, notification.DefaultChannel); !errors.Is(err, ErrBridgeClosed) {
		t.Fatalf("expected ErrBridgeClosed from setup, got %v", err)
	}
	if err := b.Display(ctx, notification.Content{}); !errors.Is(err, ErrBridgeClosed) {
		t.Fatalf("expected ErrBridgeClosed from display, got %v", err)
	}
}

func TestListenBadAddress(t *testing.T) {
	if _, err := Listen("not an address", "127.0.0.1:1"); err == nil {
		t.Fatal("expected error for bad listen address")
	}
}
