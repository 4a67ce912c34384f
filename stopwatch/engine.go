// Package stopwatch implements the stopwatch state engine: elapsed time in
// hundredths of a second and the idle/running/paused state machine that
// guards it. Transitions requested from the wrong state are ignored rather
// than reported, since pause, resume and stop may arrive from a notification
// and from the UI at the same moment.
//
// An Engine has a single owner and is not safe for concurrent use.
package stopwatch

import (
	"context"

	"github.com/looplab/fsm"
)

type subscriber struct {
	id int
	fn func(Snapshot)
}

type Engine struct {
	machine     *fsm.FSM
	elapsed     uint64
	subscribers []subscriber
	nextSubID   int
	closed      bool
}

// NewEngine returns an idle engine with zero elapsed time.
func NewEngine() *Engine {
	e := &Engine{}

	e.machine = fsm.NewFSM(
		string(Idle),
		fsm.Events{
			{Name: string(CommandStart), Src: []string{string(Idle)}, Dst: string(Running)},
			{Name: string(CommandPause), Src: []string{string(Running)}, Dst: string(Paused)},
			{Name: string(CommandResume), Src: []string{string(Paused)}, Dst: string(Running)},
			{Name: string(CommandStop), Src: []string{string(Running), string(Paused)}, Dst: string(Idle)},
		},
		fsm.Callbacks{
			// reset before entering idle so subscribers see (idle, 0)
			"before_" + string(CommandStop): func(_ context.Context, _ *fsm.Event) {
				e.elapsed = 0
			},
			"enter_state": func(_ context.Context, ev *fsm.Event) {
				e.publish(Snapshot{Status: Status(ev.Dst), Elapsed: e.elapsed, Event: ev.Event})
			},
		},
	)
	return e
}

func (e *Engine) Status() Status {
	return Status(e.machine.Current())
}

// Elapsed returns the accumulated time in hundredths of a second.
func (e *Engine) Elapsed() uint64 {
	return e.elapsed
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{Status: e.Status(), Elapsed: e.elapsed}
}

func (e *Engine) Start() bool  { return e.transition(CommandStart) }
func (e *Engine) Pause() bool  { return e.transition(CommandPause) }
func (e *Engine) Resume() bool { return e.transition(CommandResume) }

// Stop returns the engine to idle and clears the elapsed time.
func (e *Engine) Stop() bool { return e.transition(CommandStop) }

// Advance adds delta hundredths while running. delta is the measured time
// since the previous tick, not the nominal tick interval. Ticks that arrive
// while idle or paused, or after Close, leave the state untouched.
func (e *Engine) Advance(delta uint64) bool {
	if e.closed || delta == 0 || e.Status() != Running {
		return false
	}
	e.elapsed += delta
	e.publish(Snapshot{Status: Running, Elapsed: e.elapsed, Event: EventTick})
	return true
}

// Apply routes a command to the matching operation and reports whether the
// state changed.
func (e *Engine) Apply(cmd Command) bool {
	switch cmd {
	case CommandStart:
		return e.Start()
	case CommandPause:
		return e.Pause()
	case CommandResume:
		return e.Resume()
	case CommandStop:
		return e.Stop()
	}
	return false
}

// Subscribe registers fn to receive a snapshot after every applied
// transition or tick. fn runs on the caller's goroutine, after the change
// has been applied. The returned func removes the subscription and may be
// called more than once.
func (e *Engine) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	if e.closed || fn == nil {
		return func() {}
	}
	e.nextSubID++
	id := e.nextSubID
	e.subscribers = append(e.subscribers, subscriber{id: id, fn: fn})

	return func() {
		for i, sub := range e.subscribers {
			if sub.id == id {
				e.subscribers = append(e.subscribers[:i], e.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Close releases all subscribers. Every later call is a no-op.
func (e *Engine) Close() {
	e.closed = true
	e.subscribers = nil
}

func (e *Engine) transition(cmd Command) bool {
	if e.closed || !e.machine.Can(string(cmd)) {
		return false
	}
	if err := e.machine.Event(context.Background(), string(cmd)); err != nil {
		// only reachable if a callback cancels the event
		return false
	}
	return true
}

func (e *Engine) publish(snap Snapshot) {
	// copy so a subscriber may unsubscribe from inside its callback
	subs := append([]subscriber(nil), e.subscribers...)
	for _, sub := range subs {
		sub.fn(snap)
	}
}
