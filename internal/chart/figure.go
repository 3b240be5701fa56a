// Package chart builds the presentation models of a forecast run: a
// Plotly-compatible figure, the historical data table and the verdict text.
package chart

import (
	"encoding/json"

	"github.com/newthinker/stockcast/internal/core"
)

// Trace names and colors.
const (
	ActualName      = "Actual Price"
	ForecastName    = "Forecast"
	ActualColor     = "#00A8E8"
	ForecastColor   = "#FF4C61"
	lineWidth       = 3
	markerSize      = 6
	plotBackground  = "rgba(10,10,30,1)"
	paperBackground = "rgba(0,0,0,0)"

	// plotly_dark palette; plotly.js has no named templates, so the colors
	// are set on the layout directly.
	Template  = "plotly_dark"
	darkFont  = "#f2f5fa"
	darkGrid  = "#283442"
	darkZero  = "#283442"
	titleSize = 20
)

// Figure is a Plotly figure: traces plus layout, serializable as-is to
// Plotly.newPlot(el, fig.data, fig.layout).
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one scatter series.
type Trace struct {
	Type   string    `json:"type"`
	Mode   string    `json:"mode"`
	Name   string    `json:"name"`
	X      []string  `json:"x"`
	Y      []float64 `json:"y"`
	Line   Line      `json:"line"`
	Marker *Marker   `json:"marker,omitempty"`
}

type Line struct {
	Color string `json:"color"`
	Width int    `json:"width"`
	Dash  string `json:"dash,omitempty"`
}

type Marker struct {
	Size  int    `json:"size"`
	Color string `json:"color,omitempty"`
}

// Layout holds the figure-level settings.
type Layout struct {
	Title        Title  `json:"title"`
	Template     string `json:"-"`
	Font         Font   `json:"font"`
	XAxis        Axis   `json:"xaxis"`
	YAxis        Axis   `json:"yaxis"`
	HoverMode    string `json:"hovermode"`
	Legend       Legend `json:"legend"`
	PlotBGColor  string `json:"plot_bgcolor"`
	PaperBGColor string `json:"paper_bgcolor"`
	Margin       Margin `json:"margin"`
	AutoSize     bool   `json:"autosize"`
}

type Title struct {
	Text string  `json:"text"`
	X    float64 `json:"x,omitempty"`
	Font *Font   `json:"font,omitempty"`
}

type Font struct {
	Color string `json:"color,omitempty"`
	Size  int    `json:"size,omitempty"`
}

type Axis struct {
	Title         Title  `json:"title"`
	GridColor     string `json:"gridcolor"`
	ZeroLineColor string `json:"zerolinecolor"`
	Type          string `json:"type,omitempty"`
}

type Legend struct {
	Title       Title   `json:"title"`
	Orientation string  `json:"orientation"`
	X           float64 `json:"x"`
	XAnchor     string  `json:"xanchor"`
	Y           float64 `json:"y"`
	YAnchor     string  `json:"yanchor"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// ChartTitle returns the chart title for ticker.
func ChartTitle(ticker string) string {
	return ticker + " — Actual vs Forecasted Prices"
}

// Build assembles the dual-trace figure: the historical closes and the
// forecast closes, each against its own dates.
func Build(series core.PriceSeries, forecast core.ForecastResult, ticker string) Figure {
	actual := Trace{
		Type: "scatter",
		Mode: "lines",
		Name: ActualName,
		X:    make([]string, 0, series.Len()),
		Y:    make([]float64, 0, series.Len()),
		Line: Line{Color: ActualColor, Width: lineWidth},
	}
	for _, b := range series.Bars {
		actual.X = append(actual.X, b.Date.Format(core.DateLayout))
		actual.Y = append(actual.Y, b.Close)
	}

	predicted := Trace{
		Type:   "scatter",
		Mode:   "lines+markers",
		Name:   ForecastName,
		X:      make([]string, 0, forecast.Len()),
		Y:      make([]float64, 0, forecast.Len()),
		Line:   Line{Color: ForecastColor, Width: lineWidth, Dash: "dash"},
		Marker: &Marker{Size: markerSize, Color: ForecastColor},
	}
	for _, p := range forecast.Points {
		predicted.X = append(predicted.X, p.Date.Format(core.DateLayout))
		predicted.Y = append(predicted.Y, p.PredictedClose)
	}

	return Figure{
		Data:   []Trace{actual, predicted},
		Layout: newLayout(ticker),
	}
}

func newLayout(ticker string) Layout {
	return Layout{
		Title:    Title{Text: ChartTitle(ticker), X: 0.5, Font: &Font{Size: titleSize}},
		Template: Template,
		Font:     Font{Color: darkFont},
		XAxis: Axis{
			Title:         Title{Text: "Date"},
			GridColor:     darkGrid,
			ZeroLineColor: darkZero,
			Type:          "date",
		},
		YAxis: Axis{
			Title:         Title{Text: "Close Price"},
			GridColor:     darkGrid,
			ZeroLineColor: darkZero,
		},
		HoverMode: "x",
		Legend: Legend{
			Title:       Title{Text: "Legend"},
			Orientation: "h",
			X:           0.5,
			XAnchor:     "center",
			Y:           1.02,
			YAnchor:     "bottom",
		},
		PlotBGColor:  plotBackground,
		PaperBGColor: paperBackground,
		Margin:       Margin{L: 40, R: 40, T: 80, B: 40},
		AutoSize:     true,
	}
}

// JSON returns the figure encoded for embedding in a page.
func (f Figure) JSON() ([]byte, error) {
	return json.Marshal(f)
}
