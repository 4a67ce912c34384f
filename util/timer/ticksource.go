// Package timer produces stopwatch ticks. The host timer is only a wake-up
// signal: every tick re-measures wall time, so ticks that arrive late, in
// bursts or not at all never skew the elapsed total.
package timer

import (
	"context"
	"sync"
	"time"
)

// Hundredth is the unit of elapsed time handed to the engine.
const Hundredth = 10 * time.Millisecond

type TickSource struct {
	clock    Clock
	interval time.Duration
	deltaTx  chan uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// left behind by the last poll: hundredths not yet delivered and the
	// remainder below one hundredth
	flushed uint64
	carry   time.Duration
}

func NewTickSource(clock Clock, interval time.Duration) *TickSource {
	if clock == nil {
		clock = SystemClock
	}
	return &TickSource{
		clock:    clock,
		interval: interval,
		deltaTx:  make(chan uint64),
	}
}

// C delivers measured deltas in hundredths of a second. Zero deltas are
// never sent.
func (t *TickSource) C() <-chan uint64 {
	return t.deltaTx
}

// Start begins measuring from now. It returns false if already started.
func (t *TickSource) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	ticker := t.clock.NewTicker(t.interval)
	start := t.clock.Now()
	done := make(chan struct{})
	t.cancel, t.done = cancel, done

	go t.poll(ctx, ticker, start, t.carry, done)
	return true
}

// Pause halts polling and returns the hundredths measured since the last
// delivered delta, including one that was waiting to be received. The
// remainder below a hundredth is kept for the next Start. It returns 0 if
// not started.
func (t *TickSource) Pause() uint64 {
	if !t.halt() {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	flushed := t.flushed
	t.flushed = 0
	return flushed
}

// Stop halts polling and discards everything not yet delivered. It returns
// false if not started.
func (t *TickSource) Stop() bool {
	running := t.halt()
	t.mu.Lock()
	t.flushed, t.carry = 0, 0
	t.mu.Unlock()
	return running
}

func (t *TickSource) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// halt cancels the polling goroutine and waits for it to record what it
// measured.
func (t *TickSource) halt() bool {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return false
	}
	cancel()
	<-done
	return true
}

func (t *TickSource) poll(ctx context.Context, ticker Ticker, last time.Time, carry time.Duration, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	var pending uint64
	measure := func() {
		now := t.clock.Now()
		delta := carry + now.Sub(last)
		last = now
		if delta < 0 {
			// wall clock stepped backwards
			delta = 0
		}
		hundredths := uint64(delta / Hundredth)
		carry = delta - time.Duration(hundredths)*Hundredth
		pending += hundredths
	}

	for {
		// nil until there is something to send
		var deltaTx chan<- uint64
		if pending > 0 {
			deltaTx = t.deltaTx
		}

		select {
		case <-ctx.Done():
			measure()
			t.mu.Lock()
			t.flushed, t.carry = pending, carry
			t.mu.Unlock()
			return

		case <-ticker.C():
			measure()

		case deltaTx <- pending:
			pending = 0
		}
	}
}
