package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"stopwatch/network"
	"stopwatch/notification"
	"stopwatch/panel"
	"stopwatch/shell"
	"stopwatch/singlestopwatch"
	"stopwatch/stopwatch"
	"stopwatch/util/config"
	"stopwatch/util/otel"
)

func main() {
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Error parsing config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Setup(ctx, "stopwatch-"+cfg.Mode, cfg.OTelEndpoint)
	if err != nil {
		log.Fatalf("Error setting up tracing: %v", err)
	}

	switch cfg.Mode {
	case config.ModePanel:
		log.SetPrefix("[PANEL] ")
		err = panel.PanelProgram(ctx, cfg, os.Stdin, os.Stdout)
	default:
		log.SetPrefix("[STOPWATCH] ")
		err = runWatch(ctx, cfg)
	}

	if shutdownErr := shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
		log.Printf("Error shutting down tracing: %v", shutdownErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Error: %v", err)
	}
}

func runWatch(ctx context.Context, cfg config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := singlestopwatch.DefaultOptions()
	opts.TickInterval = cfg.TickInterval
	opts.NotifyInterval = cfg.NotifyInterval

	switch cfg.Bridge {
	case config.BridgeLog:
		opts.Bridge = notification.NewLogBridge(os.Stderr)
	case config.BridgeUDP:
		bridge, err := network.Listen(cfg.ListenAddr, cfg.PeerAddr)
		if err != nil {
			return err
		}
		defer bridge.Close()
		log.Printf("Notification bridge on %s, panel at %s", bridge.LocalAddr(), cfg.PeerAddr)
		opts.Bridge = bridge
	}

	commandTx := make(chan stopwatch.Command)
	go func() {
		err := shell.ReadCommands(ctx, os.Stdin, commandTx)
		if keepRunning(err, cfg.Headless) {
			log.Printf("Input closed, running until interrupted")
			return
		}
		cancel()
	}()

	sh := shell.New()
	observers := []func(stopwatch.Snapshot){sh.Observe}

	var wg sync.WaitGroup
	if shell.Interactive(os.Stdout) && !cfg.Headless {
		wg.Add(1)
		go func() {
			defer wg.Done()
			shell.Render(ctx, sh)
		}()
	} else {
		observers = append(observers, shell.LogSnapshot)
	}

	err := singlestopwatch.StopwatchProgram(ctx, opts, commandTx, observers...)
	cancel()
	wg.Wait()
	return err
}

// keepRunning reports whether the watch outlives its input. Headless watches
// are often started with stdin closed and run until a signal.
func keepRunning(inputErr error, headless bool) bool {
	if errors.Is(inputErr, io.EOF) {
		return headless
	}
	if inputErr != nil && !errors.Is(inputErr, context.Canceled) {
		log.Printf("Error reading input: %v", inputErr)
	}
	return false
}
