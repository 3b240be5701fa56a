// internal/api/handler/api/forecast.go
package api

import (
	"context"
	"net/http"

	"github.com/newthinker/stockcast/internal/api/request"
	"github.com/newthinker/stockcast/internal/api/response"
	"github.com/newthinker/stockcast/internal/core"
	"github.com/newthinker/stockcast/internal/pipeline"
)

// Runner defines the interface needed from app.App.
type Runner interface {
	Run(ctx context.Context, q core.Query) (*pipeline.Result, error)
}

// ForecastHandler handles forecast API requests.
type ForecastHandler struct {
	runner   Runner
	defaults request.Defaults
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(runner Runner, defaults request.Defaults) *ForecastHandler {
	return &ForecastHandler{runner: runner, defaults: defaults}
}

// Get runs one forecast for the query string parameters.
func (h *ForecastHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, _, err := request.ParseQuery(r, h.defaults)
	if err != nil {
		response.FromError(w, err)
		return
	}

	res, err := h.runner.Run(r.Context(), q)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, res)
}
