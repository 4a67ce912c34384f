// Package panel is a remote notification panel for the stopwatch. It shows
// the notification the watch sends over UDP and presses its buttons from
// typed commands.
package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"stopwatch/network/comm"
	"stopwatch/network/messages"
	"stopwatch/notification"
	"stopwatch/shell"
	"stopwatch/stopwatch"
	"stopwatch/util/config"
)

// PanelProgram binds cfg.ListenAddr and talks to the watch at cfg.PeerAddr
// until ctx is cancelled or the input ends.
func PanelProgram(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	local, err := net.ResolveUDPAddr("udp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}
	watch, err := net.ResolveUDPAddr("udp", cfg.PeerAddr)
	if err != nil {
		return fmt.Errorf("resolve watch address: %w", err)
	}
	conn, err := net.ListenUDP("udp", local)
	if err != nil {
		return fmt.Errorf("listen udp: %w", err)
	}
	defer conn.Close()

	log.Printf("Panel listening on %s, watch at %s", conn.LocalAddr(), watch)
	return run(ctx, conn, watch, cfg.AckTimeout, cfg.MaxRetries, in, out)
}

func run(ctx context.Context,
	conn *net.UDPConn,
	watch *net.UDPAddr,
	ackTimeout time.Duration,
	maxRetries int,
	in io.Reader,
	out io.Writer) error {

	ctx, cancel := context.WithCancel(ctx)

	displayRx := make(chan messages.NotificationDisplay)
	cancelRx := make(chan messages.NotificationCancel)
	ackRx := make(chan messages.Ack)
	actionTx := make(chan string)
	commandRx := make(chan stopwatch.Command)

	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()
	wg.Add(2)
	go func() {
		defer wg.Done()
		comm.PanelReceiver(ctx, conn, displayRx, cancelRx, ackRx)
	}()
	go func() {
		defer wg.Done()
		comm.ActionTransmitter(ctx, conn, watch, actionTx, ackRx, ackTimeout, maxRetries)
	}()

	// not waited for, a blocked read on in cannot be interrupted
	go func() {
		err := shell.ReadCommands(ctx, in, commandRx)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
			log.Printf("Error reading input: %v", err)
		}
		cancel()
	}()

	view := NewView(out)
	for {
		select {
		case <-ctx.Done():
			return nil

		case msg := <-displayRx:
			view.Display(msg)

		case msg := <-cancelRx:
			view.Cancel(msg)

		case cmd := <-commandRx:
			if _, err := notification.ParseAction(string(cmd)); err != nil {
				log.Printf("Ignoring %s: %v", cmd, err)
				break
			}
			if !view.Offers(string(cmd)) {
				log.Printf("Ignoring %s: not offered by the notification", cmd)
				break
			}
			select {
			case actionTx <- string(cmd):
			case <-ctx.Done():
				return nil
			}
		}
	}
}
