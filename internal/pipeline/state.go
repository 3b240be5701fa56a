package pipeline

// State is the lifecycle of one forecast run.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateNoData    State = "no_data"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	switch s {
	case StateNoData, StateCompleted, StateFailed:
		return true
	default:
		return false
	}
}

// Stage names used in logs and metrics.
const (
	StageFetch      = "fetch"
	StageCheck      = "stationarity"
	StageForecast   = "forecast"
	StageCommentary = "commentary"
)
