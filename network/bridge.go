// Package network carries the stopwatch notification to a remote panel over
// UDP. The panel shows what the watch displays and sends button presses
// back; see network/comm for the transport and network/messages for the
// wire types.
package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"stopwatch/network/comm"
	"stopwatch/network/messages"
	"stopwatch/notification"
)

var ErrBridgeClosed = errors.New("bridge closed")

// Bridge is a notification.Bridge backed by a UDP socket. Display and
// Cancel must be called from a single goroutine.
type Bridge struct {
	conn     *net.UDPConn
	peer     *net.UDPAddr
	epoch    uint64
	sequence uint64

	actionTx chan string
	cancel   context.CancelFunc
	done     chan struct{}

	closeOnce sync.Once
	closed    chan struct{}
}

var _ notification.Bridge = (*Bridge)(nil)

// Listen binds listenAddr and starts receiving action presses. Displays are
// sent to peerAddr.
func Listen(listenAddr, peerAddr string) (*Bridge, error) {
	local, err := net.ResolveUDPAddr("udp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("resolve listen address: %w", err)
	}
	peer, err := net.ResolveUDPAddr("udp", peerAddr)
	if err != nil {
		return nil, fmt.Errorf("resolve peer address: %w", err)
	}
	conn, err := net.ListenUDP("udp", local)
	if err != nil {
		return nil, fmt.Errorf("listen udp: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &Bridge{
		conn:     conn,
		peer:     peer,
		epoch:    comm.GenerateMessageID(),
		actionTx: make(chan string),
		cancel:   cancel,
		done:     make(chan struct{}),
		closed:   make(chan struct{}),
	}
	go func() {
		defer close(b.done)
		comm.ActionReceiver(ctx, conn, b.actionTx)
	}()
	return b, nil
}

func (b *Bridge) LocalAddr() *net.UDPAddr {
	return b.conn.LocalAddr().(*net.UDPAddr)
}

// Setup has nothing to create on the remote side; it only checks the bridge
// is still open.
func (b *Bridge) Setup(_ context.Context, _ notification.Channel) error {
	select {
	case <-b.closed:
		return ErrBridgeClosed
	default:
		return nil
	}
}

func (b *Bridge) Display(_ context.Context, c notification.Content) error {
	b.sequence++
	return b.send(messages.MsgDisplay, messages.NotificationDisplay{Epoch: b.epoch, Sequence: b.sequence, Content: c})
}

func (b *Bridge) Cancel(_ context.Context, notificationID string) error {
	b.sequence++
	return b.send(messages.MsgCancel, messages.NotificationCancel{Epoch: b.epoch, Sequence: b.sequence, NotificationID: notificationID})
}

func (b *Bridge) Actions() <-chan string {
	return b.actionTx
}

// Close stops the receiver and releases the socket.
func (b *Bridge) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.closed)
		b.cancel()
		<-b.done
		err = b.conn.Close()
	})
	return err
}

func (b *Bridge) send(msgType messages.MessageType, payload any) error {
	select {
	case <-b.closed:
		return ErrBridgeClosed
	default:
	}
	return comm.SendMessage(b.conn, b.peer, msgType, payload)
}
