// internal/api/handler/web/dashboard.go
package web

import (
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/newthinker/stockcast/internal/api/request"
	"github.com/newthinker/stockcast/internal/api/response"
	"github.com/newthinker/stockcast/internal/chart"
	"github.com/newthinker/stockcast/internal/core"
	"github.com/newthinker/stockcast/internal/pipeline"
)

// DashboardData holds data for the dashboard template
type DashboardData struct {
	Title      string
	Form       request.Form
	State      pipeline.State
	Result     *pipeline.Result
	FigureJSON template.JS
	NoData     string
	Error      *response.ErrorDetail
}

// Dashboard renders the empty form.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "dashboard.html", DashboardData{
		Title: "Stock Forecast",
		Form:  request.DefaultForm(h.defaults),
		State: pipeline.StateIdle,
	})
}

// Forecast runs the pipeline for the submitted form and renders the verdict,
// chart and data table below it.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	data := DashboardData{Title: "Stock Forecast", State: pipeline.StateIdle}

	q, form, err := request.ParseQuery(r, h.defaults)
	data.Form = form
	if err != nil {
		data.State = pipeline.StateFailed
		detail := response.Detail(err)
		data.Error = &detail
		h.render(w, response.StatusFor(err), "dashboard.html", data)
		return
	}

	res, err := h.runner.Run(r.Context(), q)
	if res != nil {
		data.State = res.State
	}
	switch {
	case errors.Is(err, core.ErrEmptyData):
		data.NoData = chart.NoDataMessage
		h.render(w, http.StatusOK, "dashboard.html", data)
		return
	case err != nil:
		data.State = pipeline.StateFailed
		detail := response.Detail(err)
		data.Error = &detail
		h.render(w, http.StatusOK, "dashboard.html", data)
		return
	}

	figure, err := res.Figure.JSON()
	if err != nil {
		h.logger.Error("encoding figure", zap.String("ticker", q.Ticker), zap.Error(err))
		http.Error(w, "encoding chart", http.StatusInternalServerError)
		return
	}
	data.Result = res
	data.FigureJSON = template.JS(figure)
	h.render(w, http.StatusOK, "dashboard.html", data)
}
