// internal/api/server_test.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/newthinker/stockcast/internal/api/response"
	"github.com/newthinker/stockcast/internal/app"
	"github.com/newthinker/stockcast/internal/collector"
	"github.com/newthinker/stockcast/internal/config"
	"github.com/newthinker/stockcast/internal/core"
	"github.com/newthinker/stockcast/internal/forecast"
	"github.com/newthinker/stockcast/internal/metrics"
)

type fixedCollector struct {
	bars []core.Bar
}

func (f *fixedCollector) Name() string                    { return "fixed" }
func (f *fixedCollector) Init(cfg collector.Config) error { return nil }
func (f *fixedCollector) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (core.PriceSeries, error) {
	if symbol != "TEST" {
		return core.PriceSeries{Ticker: symbol}, nil
	}
	return core.PriceSeries{Ticker: symbol, Bars: f.bars}, nil
}

func linearBars(n int) []core.Bar {
	dates := forecast.BusinessDays(time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC), n)
	bars := make([]core.Bar, n)
	for i, d := range dates {
		c := 100 + float64(i)
		bars[i] = core.Bar{Date: d, Open: c, High: c, Low: c, Close: c, Volume: 500}
	}
	return bars
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.Collector.Provider = "fixed"

	a, err := app.New(cfg, zap.NewNop(), app.WithCollector(&fixedCollector{bars: linearBars(61)}))
	require.NoError(t, err)

	srv, err := NewServer(Config{Host: "localhost", Port: 0}, a, zap.NewNop())
	require.NoError(t, err)
	return srv
}

func serve(srv *Server, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	return w
}

func TestServer_Health(t *testing.T) {
	w := serve(newTestServer(t), "/api/health")

	require.Equal(t, http.StatusOK, w.Code)
	var resp response.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "fixed", data["provider"])
}

func TestServer_RequestID(t *testing.T) {
	w := serve(newTestServer(t), "/api/health")
	assert.NotEmpty(t, w.Header().Get(metrics.RequestIDHeader))
}

func TestServer_Dashboard(t *testing.T) {
	w := serve(newTestServer(t), "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Generate Forecast")
}

func TestServer_WebForecast(t *testing.T) {
	w := serve(newTestServer(t), "/forecast?ticker=TEST&start=2024-01-01&horizon=5")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Not Stationary")
	assert.Contains(t, body, "TEST — Actual vs Forecasted Prices")
}

func TestServer_APIForecast(t *testing.T) {
	w := serve(newTestServer(t), "/api/v1/forecast?ticker=TEST&start=2024-01-01&horizon=5")
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "completed", data["state"])
	points := data["forecast"].(map[string]any)["points"].([]any)
	assert.Len(t, points, 5)
}

func TestServer_APIForecast_NoData(t *testing.T) {
	w := serve(newTestServer(t), "/api/v1/forecast?ticker=NOPE")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NO_DATA")
}

func TestServer_APIForecast_BadHorizon(t *testing.T) {
	w := serve(newTestServer(t), "/api/v1/forecast?ticker=TEST&horizon=3")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(t)
	serve(srv, "/api/v1/forecast?ticker=TEST&start=2024-01-01&horizon=5")

	w := serve(srv, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "stockcast_runs_total"))
	assert.Contains(t, body, `path="/api/v1/forecast"`)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/forecast", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
