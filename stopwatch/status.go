package stopwatch

// Status is the run state of a stopwatch. The values double as the state
// names of the underlying state machine.
type Status string

const (
	Idle    Status = "idle"
	Running Status = "running"
	Paused  Status = "paused"
)

func (s Status) String() string {
	return string(s)
}

// EventTick marks snapshots published by Advance rather than by a transition.
const EventTick = "tick"

// Snapshot is the read-only view of the stopwatch handed to subscribers.
// Event names what produced it: one of the Command values or EventTick.
type Snapshot struct {
	Status  Status
	Elapsed uint64 // hundredths of a second
	Event   string
}
