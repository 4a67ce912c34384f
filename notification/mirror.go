package notification

import (
	"context"
	"log"
	"time"

	"stopwatch/stopwatch"
	"stopwatch/util/timer"
)

// Mirror pushes engine snapshots to a Bridge. Bridge failures are logged
// and dropped; the stopwatch keeps running without a notification.
//
// Transitions are always pushed. Ticks are pushed at most once per
// interval.
type Mirror struct {
	bridge   Bridge
	clock    timer.Clock
	interval time.Duration

	enabled    bool
	shown      bool
	lastUpdate time.Time
}

func NewMirror(bridge Bridge, clock timer.Clock, interval time.Duration) *Mirror {
	if clock == nil {
		clock = timer.SystemClock
	}
	return &Mirror{bridge: bridge, clock: clock, interval: interval}
}

// Setup prepares the bridge. If it fails the mirror stays disabled for the
// rest of its life.
func (m *Mirror) Setup(ctx context.Context) bool {
	if m.bridge == nil {
		return false
	}
	if err := m.bridge.Setup(ctx, DefaultChannel); err != nil {
		log.Printf("Notifications disabled: %v", err)
		return false
	}
	m.enabled = true
	return true
}

func (m *Mirror) Enabled() bool {
	return m.enabled
}

// Actions returns the bridge's inbound action ids, or nil when disabled.
func (m *Mirror) Actions() <-chan string {
	if !m.enabled {
		return nil
	}
	return m.bridge.Actions()
}

func (m *Mirror) Update(ctx context.Context, snap stopwatch.Snapshot) {
	if !m.enabled {
		return
	}
	if snap.Status == stopwatch.Idle {
		m.cancel(ctx)
		return
	}

	now := m.clock.Now()
	if snap.Event == stopwatch.EventTick && m.interval > 0 && m.shown && now.Sub(m.lastUpdate) < m.interval {
		return
	}

	if err := m.bridge.Display(ctx, Build(snap)); err != nil {
		log.Printf("Error displaying notification: %v", err)
		return
	}
	m.shown = true
	m.lastUpdate = now
}

// Close removes a notification left on screen.
func (m *Mirror) Close(ctx context.Context) {
	if m.enabled {
		m.cancel(ctx)
	}
}

func (m *Mirror) cancel(ctx context.Context) {
	if !m.shown {
		return
	}
	if err := m.bridge.Cancel(ctx, NotificationID); err != nil {
		log.Printf("Error cancelling notification: %v", err)
	}
	m.shown = false
}
