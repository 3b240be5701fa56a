package polygon

import (
	"context"
	"errors"
	"fmt"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/newthinker/stockcast/internal/collector"
	"github.com/newthinker/stockcast/internal/core"
)

// aggsIterator is the subset of the client-go iterator the collector reads.
type aggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// aggsAPI lists aggregate bars.
type aggsAPI interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, opts ...models.RequestOption) aggsIterator
}

type restAPI struct {
	client *polygonrest.Client
}

func (r restAPI) ListAggs(ctx context.Context, params *models.ListAggsParams, opts ...models.RequestOption) aggsIterator {
	return r.client.ListAggs(ctx, params, opts...)
}

// Polygon implements the Polygon.io daily aggregates collector
type Polygon struct {
	api aggsAPI
}

// New creates an uninitialized Polygon collector; Init supplies the API key.
func New() *Polygon {
	return &Polygon{}
}

// NewWithAPI creates a collector backed by api.
func NewWithAPI(api aggsAPI) *Polygon {
	return &Polygon{api: api}
}

func (p *Polygon) Name() string {
	return "polygon"
}

func (p *Polygon) Init(cfg collector.Config) error {
	if p.api != nil {
		return nil
	}
	if cfg.APIKey == "" {
		return errors.New("apiKey is required")
	}
	p.api = restAPI{client: polygonrest.New(cfg.APIKey)}
	return nil
}

// FetchHistory lists 1-day aggregates from start through end.
func (p *Polygon) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (core.PriceSeries, error) {
	if p.api == nil {
		return core.PriceSeries{}, errors.New("polygon collector not initialized")
	}

	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(core.DateOf(start)),
		To:         models.Millis(core.DateOf(end)),
	}.WithAdjusted(true).WithOrder(models.Asc).WithLimit(50000)

	it := p.api.ListAggs(ctx, params)

	var bars []core.Bar
	for it.Next() {
		bars = append(bars, toBar(it.Item()))
	}
	if err := it.Err(); err != nil {
		return core.PriceSeries{}, fmt.Errorf("listing polygon aggregates: %w", err)
	}

	return core.PriceSeries{Ticker: symbol, Bars: bars}, nil
}

// toBar converts an aggregate. Daily bars are stamped at midnight New York
// time, which falls on the same UTC calendar day.
func toBar(agg models.Agg) core.Bar {
	return core.Bar{
		Date:   core.DateOf(time.Time(agg.Timestamp).UTC()),
		Open:   agg.Open,
		High:   agg.High,
		Low:    agg.Low,
		Close:  agg.Close,
		Volume: agg.Volume,
	}
}
