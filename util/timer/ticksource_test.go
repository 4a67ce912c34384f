package timer

import (
	"testing"
	"time"
)

func receiveDelta(t *testing.T, src *TickSource) uint64 {
	t.Helper()
	select {
	case d := <-src.C():
		return d
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a delta")
	}
	return 0
}

func expectNoDelta(t *testing.T, src *TickSource) {
	t.Helper()
	select {
	case d := <-src.C():
		t.Fatalf("unexpected delta %d", d)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestTickSourceMeasuresWallTime(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	src := NewTickSource(clock, Hundredth)
	src.Start()
	defer src.Stop()

	clock.Advance(25 * time.Millisecond)
	if d := receiveDelta(t, src); d != 2 {
		t.Fatalf("expected 2 hundredths, got %d", d)
	}

	// 5ms carried from the previous tick
	clock.Advance(5 * time.Millisecond)
	if d := receiveDelta(t, src); d != 1 {
		t.Fatalf("expected carried remainder to complete a hundredth, got %d", d)
	}
}

func TestTickSourceBatchedTicks(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	src := NewTickSource(clock, Hundredth)
	src.Start()
	defer src.Stop()

	// a throttled host delivers one tick for a long gap
	clock.Advance(2530 * time.Millisecond)
	if d := receiveDelta(t, src); d != 253 {
		t.Fatalf("expected 253 hundredths, got %d", d)
	}
}

func TestTickSourceSkipsZeroDeltas(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	src := NewTickSource(clock, Hundredth)
	src.Start()
	defer src.Stop()

	clock.Advance(4 * time.Millisecond)
	expectNoDelta(t, src)

	clock.Advance(6 * time.Millisecond)
	if d := receiveDelta(t, src); d != 1 {
		t.Fatalf("expected 1 hundredth, got %d", d)
	}
}

func TestTickSourceStartStop(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	src := NewTickSource(clock, Hundredth)

	if src.Stop() {
		t.Fatal("stop before start should report false")
	}
	if !src.Start() || src.Start() {
		t.Fatal("expected only the first start to apply")
	}
	if !src.Running() || clock.Tickers() != 1 {
		t.Fatalf("expected one live ticker, got %d", clock.Tickers())
	}
	if !src.Stop() || src.Stop() {
		t.Fatal("expected only the first stop to apply")
	}
	if src.Running() || clock.Tickers() != 0 {
		t.Fatalf("expected ticker to be released, got %d", clock.Tickers())
	}

	// time spent stopped is not counted after a restart
	clock.Advance(time.Second)
	src.Start()
	defer src.Stop()
	clock.Advance(10 * time.Millisecond)
	if d := receiveDelta(t, src); d != 1 {
		t.Fatalf("expected 1 hundredth after restart, got %d", d)
	}
}

func TestTickSourcePauseReturnsUndeliveredTime(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	src := NewTickSource(clock, time.Second)

	if d := src.Pause(); d != 0 {
		t.Fatalf("pause before start should return 0, got %d", d)
	}

	// no tick observes this time
	src.Start()
	clock.Stall(500 * time.Millisecond)
	if d := src.Pause(); d != 50 {
		t.Fatalf("expected 50 hundredths, got %d", d)
	}
	if src.Running() || clock.Tickers() != 0 {
		t.Fatal("expected pause to release the ticker")
	}

	// a measured delta nobody received is returned, not lost
	src.Start()
	clock.Advance(730 * time.Millisecond)
	if d := src.Pause(); d != 73 {
		t.Fatalf("expected 73 hundredths, got %d", d)
	}
}

func TestTickSourcePauseKeepsRemainder(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	src := NewTickSource(clock, Hundredth)

	src.Start()
	clock.Stall(25 * time.Millisecond)
	if d := src.Pause(); d != 2 {
		t.Fatalf("expected 2 hundredths, got %d", d)
	}

	// paused time is not counted, the 5ms remainder is
	clock.Stall(time.Second)
	src.Start()
	defer src.Stop()
	clock.Advance(5 * time.Millisecond)
	if d := receiveDelta(t, src); d != 1 {
		t.Fatalf("expected remainder to complete a hundredth, got %d", d)
	}
}

func TestTickSourceStopDiscardsRemainder(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	src := NewTickSource(clock, Hundredth)

	src.Start()
	clock.Stall(5 * time.Millisecond)
	src.Stop()

	src.Start()
	defer src.Stop()
	clock.Advance(5 * time.Millisecond)
	expectNoDelta(t, src)
}
