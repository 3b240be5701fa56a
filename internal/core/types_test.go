package core

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateOf(t *testing.T) {
	hk := time.FixedZone("HKT", 8*3600)
	in := time.Date(2024, 3, 5, 9, 30, 0, 0, hk)

	got := DateOf(in)
	if !got.Equal(day(2024, 3, 5)) {
		t.Errorf("DateOf() = %v, want 2024-03-05 UTC", got)
	}
	if got.Location() != time.UTC {
		t.Error("expected UTC location")
	}
}

func TestPriceSeries_Accessors(t *testing.T) {
	s := PriceSeries{
		Ticker: "TEST",
		Bars: []Bar{
			{Date: day(2024, 1, 2), Close: 100},
			{Date: day(2024, 1, 3), Close: 101},
			{Date: day(2024, 1, 4), Close: 102},
		},
	}

	if s.Len() != 3 || s.Empty() {
		t.Fatalf("unexpected length %d", s.Len())
	}

	closes := s.Closes()
	for i, want := range []float64{100, 101, 102} {
		if closes[i] != want {
			t.Errorf("closes[%d] = %f, want %f", i, closes[i], want)
		}
	}

	last, ok := s.Last()
	if !ok || !last.Date.Equal(day(2024, 1, 4)) {
		t.Errorf("unexpected last bar %+v", last)
	}

	if len(s.Dates()) != 3 {
		t.Error("expected 3 dates")
	}
}

func TestPriceSeries_Empty(t *testing.T) {
	var s PriceSeries
	if !s.Empty() {
		t.Error("zero series should be empty")
	}
	if _, ok := s.Last(); ok {
		t.Error("Last on empty series should report !ok")
	}
}

func TestNewVerdict_Threshold(t *testing.T) {
	tests := []struct {
		pValue float64
		want   bool
	}{
		{0.001, true},
		{0.0499, true},
		{0.05, false},
		{0.2, false},
		{1, false},
	}

	for _, tt := range tests {
		v := NewVerdict(-1, tt.pValue, 0, 100)
		if v.IsStationary != tt.want {
			t.Errorf("p=%v: IsStationary = %v, want %v", tt.pValue, v.IsStationary, tt.want)
		}
	}
}

func TestForecastResult_Finite(t *testing.T) {
	ok := ForecastResult{Points: []ForecastPoint{{PredictedClose: 1}, {PredictedClose: 2}}}
	if !ok.Finite() {
		t.Error("expected finite")
	}
	if ok.Len() != 2 || ok.Values()[1] != 2 {
		t.Error("unexpected values")
	}

	bad := ForecastResult{Points: []ForecastPoint{{PredictedClose: math.NaN()}}}
	if bad.Finite() {
		t.Error("NaN should not be finite")
	}
}
