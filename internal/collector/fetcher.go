package collector

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/newthinker/stockcast/internal/core"
	"go.uber.org/zap"
)

// Fetcher turns a Collector into the no-error fetch contract of a run: any
// provider failure or missing data is reported as an empty series.
type Fetcher struct {
	collector Collector
	logger    *zap.Logger
}

// NewFetcher wraps c. A nil logger disables logging.
func NewFetcher(c Collector, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{collector: c, logger: logger}
}

// Provider returns the name of the wrapped collector.
func (f *Fetcher) Provider() string {
	return f.collector.Name()
}

// Fetch returns the daily bars of ticker in [start, end], normalized. Errors
// are logged and swallowed.
func (f *Fetcher) Fetch(ctx context.Context, ticker string, start, end time.Time) core.PriceSeries {
	series, err := f.collector.FetchHistory(ctx, ticker, start, end)
	if err != nil {
		f.logger.Warn("fetch failed",
			zap.String("provider", f.collector.Name()),
			zap.String("ticker", ticker),
			zap.Error(err),
		)
		return core.PriceSeries{Ticker: ticker}
	}

	out := Normalize(ticker, series.Bars, start, end)
	if out.Empty() {
		f.logger.Warn("no data returned",
			zap.String("provider", f.collector.Name()),
			zap.String("ticker", ticker),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return out
	}

	f.logger.Debug("fetched history",
		zap.String("provider", f.collector.Name()),
		zap.String("ticker", ticker),
		zap.Int("bars", out.Len()),
	)
	return out
}

// Normalize truncates bar dates to calendar days, drops bars outside
// [start, end] or without a finite close, sorts ascending and keeps the last
// bar seen for each date. Zero start or end leaves that side open.
func Normalize(ticker string, bars []core.Bar, start, end time.Time) core.PriceSeries {
	from, to := core.DateOf(start), core.DateOf(end)

	byDate := make(map[time.Time]core.Bar, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			continue
		}
		b.Date = core.DateOf(b.Date)
		if !start.IsZero() && b.Date.Before(from) {
			continue
		}
		if !end.IsZero() && b.Date.After(to) {
			continue
		}
		byDate[b.Date] = b
	}

	out := make([]core.Bar, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return core.PriceSeries{Ticker: ticker, Bars: out}
}
