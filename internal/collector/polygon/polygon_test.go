package polygon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"

	"github.com/newthinker/stockcast/internal/collector"
)

type mockAPI struct {
	iterator aggsIterator
	params   *models.ListAggsParams
}

func (m *mockAPI) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) aggsIterator {
	m.params = params
	return m.iterator
}

type mockIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockIterator) Next() bool {
	if m.index < len(m.aggs) {
		m.index++
		return true
	}
	return false
}

func (m *mockIterator) Item() models.Agg {
	if m.index > 0 && m.index <= len(m.aggs) {
		return m.aggs[m.index-1]
	}
	return models.Agg{}
}

func (m *mockIterator) Err() error {
	return m.err
}

type PolygonTestSuite struct {
	suite.Suite
}

func TestPolygonSuite(t *testing.T) {
	suite.Run(t, new(PolygonTestSuite))
}

func (s *PolygonTestSuite) TestImplementsCollector() {
	var c collector.Collector = New()
	s.Equal("polygon", c.Name())
}

func (s *PolygonTestSuite) TestInit_RequiresAPIKey() {
	err := New().Init(collector.Config{})
	s.Error(err)
	s.Contains(err.Error(), "apiKey is required")

	s.NoError(New().Init(collector.Config{APIKey: "test-api-key"}))
}

func (s *PolygonTestSuite) TestFetchHistory_NotInitialized() {
	_, err := New().FetchHistory(context.Background(), "AAPL", time.Now(), time.Now())
	s.Error(err)
}

func (s *PolygonTestSuite) TestFetchHistory() {
	// Daily aggregates are stamped at 00:00 America/New_York.
	aggs := []models.Agg{
		{Timestamp: models.Millis(time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC)), Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1e6},
		{Timestamp: models.Millis(time.Date(2024, 1, 3, 5, 0, 0, 0, time.UTC)), Open: 100.5, High: 102, Low: 100, Close: 101.5, Volume: 1.5e6},
	}
	api := &mockAPI{iterator: &mockIterator{aggs: aggs}}
	p := NewWithAPI(api)
	s.Require().NoError(p.Init(collector.Config{}))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	series, err := p.FetchHistory(context.Background(), "AAPL", start, end)
	s.Require().NoError(err)

	s.Equal("AAPL", api.params.Ticker)
	s.Equal(1, api.params.Multiplier)
	s.Equal(models.Day, api.params.Timespan)

	s.Require().Equal(2, series.Len())
	s.Equal("2024-01-02", series.Bars[0].Date.Format("2006-01-02"))
	s.InDelta(100.5, series.Bars[0].Close, 0.001)
	s.InDelta(1.5e6, series.Bars[1].Volume, 0.001)
}

func (s *PolygonTestSuite) TestFetchHistory_Empty() {
	p := NewWithAPI(&mockAPI{iterator: &mockIterator{}})
	series, err := p.FetchHistory(context.Background(), "NONE", time.Now(), time.Now())
	s.NoError(err)
	s.True(series.Empty())
}

func (s *PolygonTestSuite) TestFetchHistory_IteratorError() {
	p := NewWithAPI(&mockAPI{iterator: &mockIterator{err: errors.New("API rate limit exceeded")}})
	_, err := p.FetchHistory(context.Background(), "AAPL", time.Now(), time.Now())
	s.Error(err)
	s.Contains(err.Error(), "rate limit")
}
