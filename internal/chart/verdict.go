package chart

import "github.com/newthinker/stockcast/internal/core"

// User-facing messages.
const (
	StationaryMessage    = "The series is Stationary (ADF p-value < 0.05)"
	NonStationaryMessage = "The series is Not Stationary (ADF p-value >= 0.05)"
	NoDataMessage        = "No data found. Check stock symbol."
)

// VerdictMessage returns the one-line stationarity summary.
func VerdictMessage(v core.StationarityVerdict) string {
	if v.IsStationary {
		return StationaryMessage
	}
	return NonStationaryMessage
}
