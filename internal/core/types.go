package core

import (
	"math"
	"time"
)

// Model and presentation constants. Both the AR order and the significance
// level are fixed per run but kept here so they can be tuned in one place.
const (
	// SignificanceLevel is the ADF p-value below which a series is stationary.
	SignificanceLevel = 0.05

	// AROrder is the number of autoregressive lags (AR(5,0,0)).
	AROrder = 5

	MinHorizon     = 5
	MaxHorizon     = 60
	DefaultHorizon = 10
	DefaultTicker  = "1299.HK"
)

// DateLayout is the calendar date format used on every surface.
const DateLayout = "2006-01-02"

// DefaultStart is the default first day of the fetch window.
var DefaultStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateOf truncates t to its calendar day in t's location and returns it as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC calendar date.
func Today() time.Time {
	return DateOf(time.Now().UTC())
}

// Bar is one daily OHLCV row.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is a ticker's daily bars ordered by date ascending with unique dates.
// An empty series is the valid "no data" outcome of a fetch.
type PriceSeries struct {
	Ticker string `json:"ticker"`
	Bars   []Bar  `json:"bars"`
}

// Len returns the number of bars.
func (s PriceSeries) Len() int {
	return len(s.Bars)
}

// Empty reports whether the series has no bars.
func (s PriceSeries) Empty() bool {
	return len(s.Bars) == 0
}

// Closes returns the closing prices in date order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Dates returns the bar dates in order.
func (s PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Date
	}
	return out
}

// Last returns the most recent bar. ok is false for an empty series.
func (s PriceSeries) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// StationarityVerdict is the outcome of the ADF test on a series.
type StationarityVerdict struct {
	Statistic      float64            `json:"statistic"`
	PValue         float64            `json:"p_value"`
	Lags           int                `json:"lags"`
	NObs           int                `json:"nobs"`
	CriticalValues map[string]float64 `json:"critical_values"`
	IsStationary   bool               `json:"is_stationary"`
	// Degenerate is set when the series has no stochastic component to test
	// (constant or perfectly deterministic); PValue is then 1.
	Degenerate bool `json:"degenerate"`
}

// NewVerdict classifies a p-value against SignificanceLevel.
func NewVerdict(statistic, pValue float64, lags, nobs int) StationarityVerdict {
	return StationarityVerdict{
		Statistic:    statistic,
		PValue:       pValue,
		Lags:         lags,
		NObs:         nobs,
		IsStationary: pValue < SignificanceLevel,
	}
}

// ForecastPoint is one predicted close.
type ForecastPoint struct {
	Date           time.Time `json:"date"`
	PredictedClose float64   `json:"predicted_close"`
}

// ForecastResult holds the forecast points, one per business day of the horizon.
type ForecastResult struct {
	Points []ForecastPoint `json:"points"`
}

// Len returns the number of forecast points.
func (f ForecastResult) Len() int {
	return len(f.Points)
}

// Values returns the predicted closes in order.
func (f ForecastResult) Values() []float64 {
	out := make([]float64, len(f.Points))
	for i, p := range f.Points {
		out[i] = p.PredictedClose
	}
	return out
}

// Finite reports whether every predicted close is a finite number.
func (f ForecastResult) Finite() bool {
	for _, p := range f.Points {
		if math.IsNaN(p.PredictedClose) || math.IsInf(p.PredictedClose, 0) {
			return false
		}
	}
	return true
}
