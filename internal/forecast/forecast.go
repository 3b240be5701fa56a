package forecast

import (
	"github.com/newthinker/stockcast/internal/core"
)

// Forecast fits an AR(core.AROrder) model to the series' closes and predicts
// horizon closes dated on the business days following the last bar.
func Forecast(series core.PriceSeries, horizon int) (core.ForecastResult, error) {
	last, ok := series.Last()
	if !ok {
		return core.ForecastResult{}, core.Errorf(core.ErrModelFit, "empty series")
	}
	if horizon < 1 {
		return core.ForecastResult{}, core.Errorf(core.ErrModelFit, "horizon must be positive, got %d", horizon)
	}

	m := New(core.AROrder)
	if err := m.Fit(series.Closes()); err != nil {
		return core.ForecastResult{}, err
	}

	values, err := m.Predict(horizon)
	if err != nil {
		return core.ForecastResult{}, core.WrapError(core.ErrModelFit, err)
	}

	dates := BusinessDays(last.Date, horizon)
	points := make([]core.ForecastPoint, horizon)
	for i := range points {
		points[i] = core.ForecastPoint{Date: dates[i], PredictedClose: values[i]}
	}

	result := core.ForecastResult{Points: points}
	if !result.Finite() {
		return core.ForecastResult{}, core.Errorf(core.ErrModelFit, "forecast produced non-finite values")
	}
	return result, nil
}
