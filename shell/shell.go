// Package shell is the terminal front end of the stopwatch: it renders
// engine snapshots and turns typed commands into engine commands.
package shell

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"stopwatch/stopwatch"
)

// Shell keeps the latest snapshot for rendering. Observe is called from the
// engine's owner goroutine; rendering happens on another one.
type Shell struct {
	mu   sync.Mutex
	snap stopwatch.Snapshot
}

func New() *Shell {
	return &Shell{snap: stopwatch.Snapshot{Status: stopwatch.Idle}}
}

// Observe is an engine subscriber.
func (s *Shell) Observe(snap stopwatch.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

func (s *Shell) Snapshot() stopwatch.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Lines returns the time, the status and the controls valid for the status.
func (s *Shell) Lines() []string {
	snap := s.Snapshot()
	return []string{
		stopwatch.Format(snap.Elapsed),
		strings.ToUpper(snap.Status.String()),
		strings.Join(Controls(snap.Status), "  "),
	}
}

// Controls lists the keys that do something in status. Only valid
// transitions are offered.
func Controls(status stopwatch.Status) []string {
	var controls []string
	switch status {
	case stopwatch.Idle:
		controls = []string{"[s] start"}
	case stopwatch.Running:
		controls = []string{"[p] pause", "[x] stop"}
	case stopwatch.Paused:
		controls = []string{"[r] resume", "[x] stop"}
	}
	return append(controls, "[q] quit")
}

// LogSnapshot is the subscriber used when there is no terminal to draw on.
// Ticks are skipped.
func LogSnapshot(snap stopwatch.Snapshot) {
	if snap.Event == stopwatch.EventTick {
		return
	}
	log.Printf("Stopwatch %s at %s", snap.Status, stopwatch.Format(snap.Elapsed))
}

// Interactive reports whether f is a terminal.
func Interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
