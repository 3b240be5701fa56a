// Package commentary asks an LLM for a short plain-language note on a
// completed forecast run.
package commentary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/stockcast/internal/chart"
	"github.com/newthinker/stockcast/internal/core"
	"github.com/newthinker/stockcast/internal/indicator"
	"github.com/newthinker/stockcast/internal/llm"
	"github.com/newthinker/stockcast/internal/metrics"
)

const systemPrompt = `You are a market data assistant. You receive the result of a
stationarity test and an autoregressive price forecast for one ticker.
Write at most three sentences in plain language describing the recent trend,
what the stationarity verdict means, and the direction of the forecast.
Do not give investment advice. Do not invent numbers that are not provided.`

// Config holds commentator configuration.
type Config struct {
	MaxTokens int
	Timeout   time.Duration
}

// Commentator writes the note via an llm.Provider.
type Commentator struct {
	llm       llm.Provider
	metrics   *metrics.Registry
	logger    *zap.Logger
	maxTokens int
	timeout   time.Duration
}

// New creates a commentator. metrics and logger may be nil.
func New(provider llm.Provider, reg *metrics.Registry, logger *zap.Logger, cfg Config) *Commentator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 300
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Commentator{
		llm:       provider,
		metrics:   reg,
		logger:    logger,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
	}
}

// Comment returns the note for a completed run.
func (c *Commentator) Comment(
	ctx context.Context,
	q core.Query,
	series core.PriceSeries,
	verdict core.StationarityVerdict,
	forecast core.ForecastResult,
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	note, err := llm.Ask(ctx, c.llm, systemPrompt, BuildPrompt(q, series, verdict, forecast), c.maxTokens)
	if err == nil && note == "" {
		err = fmt.Errorf("empty reply")
	}
	if err != nil {
		c.record("error")
		c.logger.Warn("commentary failed",
			zap.String("provider", c.llm.Name()),
			zap.String("ticker", q.Ticker),
			zap.Error(err),
		)
		return "", core.WrapError(core.ErrLLMFailed, err)
	}

	c.record("ok")
	return note, nil
}

func (c *Commentator) record(status string) {
	if c.metrics != nil {
		c.metrics.RecordCommentary(c.llm.Name(), status)
	}
}

// BuildPrompt renders the run summary sent to the model.
func BuildPrompt(
	q core.Query,
	series core.PriceSeries,
	verdict core.StationarityVerdict,
	forecast core.ForecastResult,
) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Ticker: %s\n\n", q.Ticker))

	sb.WriteString("## History:\n")
	sb.WriteString(fmt.Sprintf("- Window: %s to %s\n", q.Start.Format(core.DateLayout), q.End.Format(core.DateLayout)))
	sb.WriteString(fmt.Sprintf("- Trading days: %d\n", series.Len()))
	if len(series.Bars) > 0 {
		first := series.Bars[0]
		last := series.Bars[len(series.Bars)-1]
		sb.WriteString(fmt.Sprintf("- First close: %.2f on %s\n", first.Close, first.Date.Format(core.DateLayout)))
		sb.WriteString(fmt.Sprintf("- Last close: %.2f on %s\n", last.Close, last.Date.Format(core.DateLayout)))
		lo, hi := closeRange(series)
		sb.WriteString(fmt.Sprintf("- Range: %.2f to %.2f\n", lo, hi))
		writeTrend(&sb, indicator.Summarize(series.Closes()))
	}
	sb.WriteString("\n")

	sb.WriteString("## Stationarity (ADF):\n")
	sb.WriteString(fmt.Sprintf("- %s\n", chart.VerdictMessage(verdict)))
	if verdict.Degenerate {
		sb.WriteString("- The series has no random component to test\n")
	} else {
		sb.WriteString(fmt.Sprintf("- Statistic: %.3f, p-value: %.4f, lags: %d\n",
			verdict.Statistic, verdict.PValue, verdict.Lags))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("## Forecast (AR(%d), %d business days):\n", core.AROrder, forecast.Len()))
	for _, p := range forecast.Points {
		sb.WriteString(fmt.Sprintf("- %s: %.2f\n", p.Date.Format(core.DateLayout), p.PredictedClose))
	}

	return sb.String()
}

func writeTrend(sb *strings.Builder, t indicator.Trend) {
	if t.HasEMA10 {
		sb.WriteString(fmt.Sprintf("- EMA(10): %.2f\n", t.EMA10))
	}
	if t.HasSMA20 {
		sb.WriteString(fmt.Sprintf("- SMA(20): %.2f\n", t.SMA20))
	}
	if t.HasSMA50 {
		sb.WriteString(fmt.Sprintf("- SMA(50): %.2f\n", t.SMA50))
	}
}

func closeRange(series core.PriceSeries) (lo, hi float64) {
	lo, hi = series.Bars[0].Close, series.Bars[0].Close
	for _, b := range series.Bars[1:] {
		lo = min(lo, b.Close)
		hi = max(hi, b.Close)
	}
	return lo, hi
}
