package crawler

// State is a stage of the crawl lifecycle. A crawler moves strictly forward
// through Idle, Seeded, Running, Draining and Terminated.
type State int32

const (
	StateIdle State = iota
	StateSeeded
	StateRunning
	StateDraining
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeeded:
		return "seeded"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
