package install

// State is the per-request install state machine. Failed is terminal and
// reachable from any non-terminal state.
type State int

const (
	StateValidating State = iota
	StateFetchingResource
	StateDownloading
	StateCommitting
	StateRotatingKey
	StateDone
	StateFailed
)

func (s State) String() string {
	return [...]string{
		"validating",
		"fetching-resource",
		"downloading",
		"committing",
		"rotating-key",
		"done",
		"failed",
	}[s]
}

// Terminal reports whether no further progress updates will follow.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Progress is a status-sink update. Updates cross from a background task to
// the presentation context, so sinks must be safe to call from any
// goroutine.
type Progress struct {
	State   State
	Percent int
	Message string
}

// Sink accepts discrete progress updates for one install request.
type Sink func(Progress)
