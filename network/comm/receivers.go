package comm

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"time"

	"stopwatch/network/messages"
	"stopwatch/util/config"
	"stopwatch/util/msgidbuffer"
)

// readLoop hands every well-formed datagram on conn to handle until ctx is
// cancelled. Cancelling ctx unblocks a pending read.
func readLoop(ctx context.Context, conn *net.UDPConn, handle func(messages.MessageType, []byte, *net.UDPAddr)) {
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, config.MAX_DATAGRAM_SIZE)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("Error reading datagram: %v", err)
			continue
		}

		msgType, payload, err := Decode(buf[:n])
		if err != nil {
			log.Printf("Dropping datagram from %s: %v", addr, err)
			continue
		}
		handle(msgType, payload, addr)
	}
}

// Listens for action presses on conn, acknowledges every one to its sender and
// forwards each message id once to actionTx
func ActionReceiver(ctx context.Context, conn *net.UDPConn, actionTx chan<- string) {
	recentActions := msgidbuffer.New(config.ACTION_ID_BUFFER_SIZE)

	readLoop(ctx, conn, func(msgType messages.MessageType, payload []byte, addr *net.UDPAddr) {
		if msgType != messages.MsgAction {
			return
		}
		var press messages.ActionPress
		if err := json.Unmarshal(payload, &press); err != nil {
			log.Printf("Dropping action from %s: %v", addr, err)
			return
		}

		// ack duplicates too, the first ack may have been lost
		if err := SendMessage(conn, addr, messages.MsgAck, messages.Ack{MessageID: press.MessageID}); err != nil {
			log.Printf("Error acking action: %v", err)
		}
		if recentActions.Seen(press.MessageID) {
			return
		}

		select {
		case actionTx <- press.ActionID:
		case <-ctx.Done():
		}
	})
}

// Listens for notification updates and acks on the panel side and
// distributes them to their corresponding channels
func PanelReceiver(ctx context.Context,
	conn *net.UDPConn,
	displayTx chan<- messages.NotificationDisplay,
	cancelTx chan<- messages.NotificationCancel,
	ackTx chan<- messages.Ack) {

	readLoop(ctx, conn, func(msgType messages.MessageType, payload []byte, addr *net.UDPAddr) {
		var err error
		switch msgType {
		case messages.MsgDisplay:
			var msg messages.NotificationDisplay
			if err = json.Unmarshal(payload, &msg); err == nil {
				select {
				case displayTx <- msg:
				case <-ctx.Done():
				}
			}

		case messages.MsgCancel:
			var msg messages.NotificationCancel
			if err = json.Unmarshal(payload, &msg); err == nil {
				select {
				case cancelTx <- msg:
				case <-ctx.Done():
				}
			}

		case messages.MsgAck:
			var msg messages.Ack
			if err = json.Unmarshal(payload, &msg); err == nil {
				select {
				case ackTx <- msg:
				case <-ctx.Done():
				}
			}
		}
		if err != nil {
			log.Printf("Dropping %s from %s: %v", msgType, addr, err)
		}
	})
}
