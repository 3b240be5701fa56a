// Package request turns forecast form and query-string input into a core.Query.
package request

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/stockcast/internal/core"
)

// Defaults are used for parameters the request leaves empty.
type Defaults struct {
	Ticker  string
	Start   time.Time
	Horizon int
}

// Form echoes the raw inputs back to the dashboard.
type Form struct {
	Ticker     string
	Start      string
	End        string
	Horizon    int
	MinHorizon int
	MaxHorizon int
}

// DefaultForm returns the form pre-filled with d.
func DefaultForm(d Defaults) Form {
	return Form{
		Ticker:     d.Ticker,
		Start:      d.Start.Format(core.DateLayout),
		Horizon:    d.Horizon,
		MinHorizon: core.MinHorizon,
		MaxHorizon: core.MaxHorizon,
	}
}

// ParseQuery reads ticker, start, end and horizon from the URL query.
// A missing end means today. The returned Form is filled even on error.
func ParseQuery(r *http.Request, d Defaults) (core.Query, Form, error) {
	v := r.URL.Query()
	form := DefaultForm(d)

	if t := strings.TrimSpace(v.Get("ticker")); t != "" {
		form.Ticker = t
	}
	if s := strings.TrimSpace(v.Get("start")); s != "" {
		form.Start = s
	}
	form.End = strings.TrimSpace(v.Get("end"))

	if h := strings.TrimSpace(v.Get("horizon")); h != "" {
		n, err := strconv.Atoi(h)
		if err != nil {
			return core.Query{}, form, core.Errorf(core.ErrInvalidQuery, "horizon must be an integer, got %q", h)
		}
		form.Horizon = n
	}

	start, err := time.Parse(core.DateLayout, form.Start)
	if err != nil {
		return core.Query{}, form, core.Errorf(core.ErrInvalidQuery, "start must be YYYY-MM-DD, got %q", form.Start)
	}

	var end time.Time
	if form.End != "" {
		end, err = time.Parse(core.DateLayout, form.End)
		if err != nil {
			return core.Query{}, form, core.Errorf(core.ErrInvalidQuery, "end must be YYYY-MM-DD, got %q", form.End)
		}
	}

	q, err := core.NewQuery(form.Ticker, start, end, form.Horizon)
	if err != nil {
		return core.Query{}, form, err
	}
	form.Ticker = q.Ticker
	return q, form, nil
}
