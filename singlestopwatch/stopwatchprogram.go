// Package singlestopwatch runs one stopwatch. StopwatchProgram is the only
// goroutine that touches the engine; ticks, typed commands and notification
// actions all reach it through channels and are applied one at a time.
package singlestopwatch

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"stopwatch/notification"
	"stopwatch/stopwatch"
	"stopwatch/util/config"
	"stopwatch/util/timer"
)

const tracerName = "stopwatch/singlestopwatch"

// Command sources, recorded on spans
const (
	SourceShell        = "shell"
	SourceNotification = "notification"
)

type Options struct {
	TickInterval   time.Duration
	NotifyInterval time.Duration
	Clock          timer.Clock         // nil means the system clock
	Bridge         notification.Bridge // nil disables notifications
}

func DefaultOptions() Options {
	return Options{
		TickInterval:   config.TICK_INTERVAL,
		NotifyInterval: config.NOTIFY_INTERVAL,
	}
}

// StopwatchProgram owns a stopwatch until ctx is cancelled or commandRx is
// closed. observers receive every snapshot after it has been applied.
// On return the tick source is stopped, any notification is cancelled and
// the engine is closed.
func StopwatchProgram(ctx context.Context,
	opts Options,
	commandRx <-chan stopwatch.Command,
	observers ...func(stopwatch.Snapshot)) error {

	if opts.TickInterval <= 0 {
		opts.TickInterval = config.TICK_INTERVAL
	}

	engine := stopwatch.NewEngine()
	defer engine.Close()

	ticks := timer.NewTickSource(opts.Clock, opts.TickInterval)
	defer ticks.Stop()

	mirror := notification.NewMirror(opts.Bridge, opts.Clock, opts.NotifyInterval)
	mirror.Setup(ctx)
	defer mirror.Close(context.WithoutCancel(ctx))

	// the tick source runs exactly while the engine is running. Subscribed
	// first so ticks are flowing before any observer hears about a start.
	defer engine.Subscribe(func(snap stopwatch.Snapshot) {
		if snap.Event == stopwatch.EventTick {
			return
		}
		switch snap.Status {
		case stopwatch.Running:
			ticks.Start()
		case stopwatch.Paused:
			// already flushed by apply, keeps the remainder
			ticks.Pause()
		default:
			ticks.Stop()
		}
	})()
	defer engine.Subscribe(func(snap stopwatch.Snapshot) {
		mirror.Update(ctx, snap)
	})()
	for _, observe := range observers {
		defer engine.Subscribe(observe)()
	}

	actionRx := mirror.Actions()
	tracer := otel.Tracer(tracerName)

	for {
		select {
		case <-ctx.Done():
			return nil

		case delta := <-ticks.C():
			engine.Advance(delta)

		case cmd, ok := <-commandRx:
			if !ok {
				return nil
			}
			apply(ctx, tracer, engine, ticks, cmd, SourceShell)

		case actionID := <-actionRx:
			cmd, err := notification.ParseAction(actionID)
			if err != nil {
				log.Printf("Ignoring notification action: %v", err)
				break
			}
			apply(ctx, tracer, engine, ticks, cmd, SourceNotification)
		}
	}
}

func apply(ctx context.Context,
	tracer trace.Tracer,
	engine *stopwatch.Engine,
	ticks *timer.TickSource,
	cmd stopwatch.Command,
	source string) {

	_, span := tracer.Start(ctx, "stopwatch."+string(cmd),
		trace.WithAttributes(attribute.String("stopwatch.source", source)))
	defer span.End()

	// running time since the last delivered tick counts before leaving
	// running
	if engine.Status() == stopwatch.Running && (cmd == stopwatch.CommandPause || cmd == stopwatch.CommandStop) {
		engine.Advance(ticks.Pause())
	}

	applied := engine.Apply(cmd)
	snap := engine.Snapshot()
	span.SetAttributes(
		attribute.Bool("stopwatch.applied", applied),
		attribute.String("stopwatch.status", snap.Status.String()),
		attribute.Int64("stopwatch.elapsed_hundredths", int64(snap.Elapsed)),
	)
}
