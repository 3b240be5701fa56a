// Package pipeline runs one forecast request end to end: fetch, stationarity
// check, forecast and presentation.
package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/stockcast/internal/chart"
	"github.com/newthinker/stockcast/internal/core"
	"github.com/newthinker/stockcast/internal/forecast"
	"github.com/newthinker/stockcast/internal/metrics"
	"github.com/newthinker/stockcast/internal/stats"
)

// Fetcher returns the daily bars for a ticker. An empty series means no data.
type Fetcher interface {
	Fetch(ctx context.Context, ticker string, start, end time.Time) core.PriceSeries
}

// Commentator writes an optional note on a completed run.
type Commentator interface {
	Comment(ctx context.Context, q core.Query, series core.PriceSeries,
		verdict core.StationarityVerdict, forecast core.ForecastResult) (string, error)
}

// CheckFunc runs the stationarity test on closing prices.
type CheckFunc func(values []float64) (core.StationarityVerdict, error)

// ForecastFunc fits the model and forecasts horizon business days.
type ForecastFunc func(series core.PriceSeries, horizon int) (core.ForecastResult, error)

// Result is everything the presenters need from one run.
type Result struct {
	Query      core.Query               `json:"query"`
	State      State                    `json:"state"`
	Series     core.PriceSeries         `json:"series"`
	Verdict    core.StationarityVerdict `json:"verdict"`
	Forecast   core.ForecastResult      `json:"forecast"`
	Figure     *chart.Figure            `json:"figure,omitempty"`
	Table      *chart.Table             `json:"table,omitempty"`
	Message    string                   `json:"message"`
	Commentary string                   `json:"commentary,omitempty"`
}

// Runner executes forecast runs. It holds no per-run state and is safe for
// concurrent use.
type Runner struct {
	fetcher     Fetcher
	logger      *zap.Logger
	metrics     *metrics.Registry
	commentator Commentator
	check       CheckFunc
	forecast    ForecastFunc
	onStage     func(stage string)
}

// Option configures a Runner.
type Option func(*Runner)

// WithMetrics records run and stage metrics on reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(r *Runner) { r.metrics = reg }
}

// WithCommentator attaches an LLM note to completed runs.
func WithCommentator(c Commentator) Option {
	return func(r *Runner) { r.commentator = c }
}

// WithChecker replaces the stationarity test.
func WithChecker(fn CheckFunc) Option {
	return func(r *Runner) { r.check = fn }
}

// WithForecaster replaces the forecaster.
func WithForecaster(fn ForecastFunc) Option {
	return func(r *Runner) { r.forecast = fn }
}

// WithStageHook calls fn as each stage starts.
func WithStageHook(fn func(stage string)) Option {
	return func(r *Runner) { r.onStage = fn }
}

// NewRunner creates a runner backed by fetcher.
func NewRunner(fetcher Fetcher, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		fetcher:  fetcher,
		logger:   logger,
		check:    stats.Check,
		forecast: forecast.Forecast,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one forecast for q. The returned Result is never nil; on
// error its State is StateNoData or StateFailed.
func (r *Runner) Run(ctx context.Context, q core.Query) (*Result, error) {
	res := &Result{Query: q, State: StateRunning}
	began := time.Now()
	log := r.logger.With(
		zap.String("ticker", q.Ticker),
		zap.String("start", q.Start.Format(core.DateLayout)),
		zap.String("end", q.End.Format(core.DateLayout)),
		zap.Int("horizon", q.Horizon),
	)
	log.Info("forecast run started")

	err := r.run(ctx, q, res, log)

	if r.metrics != nil {
		r.metrics.RecordRun(string(res.State), time.Since(began).Seconds())
	}
	if err != nil {
		log.Warn("forecast run ended",
			zap.String("state", string(res.State)),
			zap.Duration("elapsed", time.Since(began)),
			zap.Error(err),
		)
		return res, err
	}
	log.Info("forecast run completed",
		zap.Int("bars", res.Series.Len()),
		zap.Float64("p_value", res.Verdict.PValue),
		zap.Bool("stationary", res.Verdict.IsStationary),
		zap.Duration("elapsed", time.Since(began)),
	)
	return res, nil
}

func (r *Runner) run(ctx context.Context, q core.Query, res *Result, log *zap.Logger) error {
	var series core.PriceSeries
	r.stage(StageFetch, log, func() {
		series = r.fetcher.Fetch(ctx, q.Ticker, q.Start, q.End)
	})
	if r.metrics != nil {
		r.metrics.RecordFetch(series.Len())
	}
	if series.Empty() {
		res.State = StateNoData
		res.Message = chart.NoDataMessage
		return core.Errorf(core.ErrEmptyData, "%s returned no bars between %s and %s",
			q.Ticker, q.Start.Format(core.DateLayout), q.End.Format(core.DateLayout))
	}
	res.Series = series

	var verdict core.StationarityVerdict
	var err error
	r.stage(StageCheck, log, func() {
		verdict, err = r.check(series.Closes())
	})
	if err != nil {
		res.State = StateFailed
		return wrapAs(core.ErrStatTest, err)
	}
	res.Verdict = verdict
	res.Message = chart.VerdictMessage(verdict)
	log.Debug("stationarity checked", zap.String("verdict", stats.String(verdict)))

	var fc core.ForecastResult
	r.stage(StageForecast, log, func() {
		fc, err = r.forecast(series, q.Horizon)
	})
	if err != nil {
		res.State = StateFailed
		return wrapAs(core.ErrModelFit, err)
	}
	res.Forecast = fc

	fig := chart.Build(series, fc, q.Ticker)
	table := chart.NewTable(series)
	res.Figure = &fig
	res.Table = &table
	res.State = StateCompleted

	if r.commentator != nil {
		r.stage(StageCommentary, log, func() {
			note, cerr := r.commentator.Comment(ctx, q, series, verdict, fc)
			if cerr != nil {
				log.Warn("commentary omitted", zap.Error(cerr))
				return
			}
			res.Commentary = note
		})
	}
	return nil
}

func (r *Runner) stage(name string, log *zap.Logger, fn func()) {
	if r.onStage != nil {
		r.onStage(name)
	}
	began := time.Now()
	fn()
	elapsed := time.Since(began)
	if r.metrics != nil {
		r.metrics.ObserveStage(name, elapsed.Seconds())
	}
	log.Debug("stage finished", zap.String("stage", name), zap.Duration("elapsed", elapsed))
}

// wrapAs keeps err if it already carries base's code, otherwise wraps it.
func wrapAs(base *core.Error, err error) error {
	if errors.Is(err, base) {
		return err
	}
	return core.WrapError(base, err)
}
