package race

// State is the race lifecycle state. Transitions only move forward:
// countdown, playing, finished, results.
type State uint8

const (
	StateCountdown State = iota
	StatePlaying
	StateFinished
	StateResults
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCountdown:
		return "countdown"
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	case StateResults:
		return "results"
	}
	return "unknown"
}

// Simulating reports whether ticks advance the simulation in this state.
func (s State) Simulating() bool {
	return s == StatePlaying || s == StateFinished
}
