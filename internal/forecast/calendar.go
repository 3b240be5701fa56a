package forecast

import (
	"time"

	"github.com/newthinker/stockcast/internal/core"
)

// BusinessDays returns the next n weekdays strictly after the calendar day of
// after. Exchange holidays are not skipped.
func BusinessDays(after time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	d := core.DateOf(after)
	for len(out) < n {
		d = d.AddDate(0, 0, 1)
		if IsBusinessDay(d) {
			out = append(out, d)
		}
	}
	return out
}

// IsBusinessDay reports whether t falls on Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}
