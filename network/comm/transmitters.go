package comm

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net"
	"time"

	"stopwatch/network/messages"
)

// GenerateMessageID returns a random non-zero id for an action press.
func GenerateMessageID() uint64 {
	for {
		if id := rand.Uint64(); id != 0 {
			return id
		}
	}
}

// SendMessage encodes payload and writes it to addr as one datagram.
func SendMessage(conn *net.UDPConn, addr *net.UDPAddr, msgType messages.MessageType, payload any) error {
	data, err := Encode(msgType, payload)
	if err != nil {
		return err
	}
	if _, err := conn.WriteToUDP(data, addr); err != nil {
		return fmt.Errorf("send %s to %s: %w", msgType, addr, err)
	}
	return nil
}

type pendingAction struct {
	msg      messages.ActionPress
	attempts int
}

// Transmits action presses from actionRx to peer and resends each one every
// ackTimeout until it is acknowledged on ackRx or maxRetries resends have
// been made. Returns when ctx is cancelled.
func ActionTransmitter(ctx context.Context,
	conn *net.UDPConn,
	peer *net.UDPAddr,
	actionRx <-chan string,
	ackRx <-chan messages.Ack,
	ackTimeout time.Duration,
	maxRetries int) {

	activeActions := map[uint64]*pendingAction{}

	timeoutChannel := make(chan uint64, 16)
	scheduleTimeout := func(id uint64) {
		time.AfterFunc(ackTimeout, func() {
			select {
			case timeoutChannel <- id:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return

		case actionID := <-actionRx:
			msg := messages.ActionPress{MessageID: GenerateMessageID(), ActionID: actionID}
			activeActions[msg.MessageID] = &pendingAction{msg: msg}

			if err := SendMessage(conn, peer, messages.MsgAction, msg); err != nil {
				log.Printf("Error sending action %s: %v", actionID, err)
			}
			scheduleTimeout(msg.MessageID)

		case timedOutMsgID := <-timeoutChannel:
			pending, ok := activeActions[timedOutMsgID]
			if !ok {
				// acked in the meantime
				break
			}
			if pending.attempts >= maxRetries {
				log.Printf("Giving up on action %s after %d resends", pending.msg.ActionID, pending.attempts)
				delete(activeActions, timedOutMsgID)
				break
			}
			pending.attempts++
			if err := SendMessage(conn, peer, messages.MsgAction, pending.msg); err != nil {
				log.Printf("Error resending action %s: %v", pending.msg.ActionID, err)
			}
			scheduleTimeout(timedOutMsgID)

		case receivedAck := <-ackRx:
			delete(activeActions, receivedAck.MessageID)
		}
	}
}
