package collector

import (
	"context"
	"time"

	"github.com/newthinker/stockcast/internal/core"
)

// Config holds collector configuration
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Dir     string
	Extra   map[string]any
}

// Collector defines the interface for daily price providers
type Collector interface {
	// Metadata
	Name() string

	// Lifecycle
	Init(cfg Config) error

	// FetchHistory returns daily bars for symbol between start and end, both
	// inclusive calendar days. Implementations may return an empty series.
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) (core.PriceSeries, error)
}
