package csv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/stockcast/internal/collector"
)

const sample = `Date,Open,High,Low,Close,Adj Close,Volume
2024-01-02,60.1,61.5,59.8,61.2,61.2,1200000
2024-01-03,61.0,62.0,60.2,null,null,900000
2024-01-04,61.3,62.4,60.9,62.0,62.0,
2024-01-05,62.0,63.0,61.5,62.8,62.8,1100000
`

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	return dir
}

func TestRead(t *testing.T) {
	bars, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, "2024-01-02", bars[0].Date.Format("2006-01-02"))
	assert.Equal(t, 61.2, bars[0].Close)
	assert.Equal(t, 1200000.0, bars[0].Volume)
	assert.Equal(t, 0.0, bars[1].Volume, "empty volume reads as zero")
}

func TestRead_MissingColumn(t *testing.T) {
	_, err := Read(strings.NewReader("date,close\n2024-01-02,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestRead_BadNumber(t *testing.T) {
	_, err := Read(strings.NewReader("date,open,high,low,close,volume\n2024-01-02,x,1,1,1,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestCSV_FetchHistory(t *testing.T) {
	dir := writeFixture(t, "1299.HK.csv", sample)
	c := New()
	require.NoError(t, c.Init(collector.Config{Dir: dir}))

	start := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	series, err := c.FetchHistory(context.Background(), "1299.HK", start, end)
	require.NoError(t, err)

	require.Equal(t, 1, series.Len())
	assert.Equal(t, 62.0, series.Bars[0].Close)
	assert.Equal(t, "1299.HK", series.Ticker)
}

func TestCSV_FetchHistory_MissingFile(t *testing.T) {
	c := New()
	require.NoError(t, c.Init(collector.Config{Dir: t.TempDir()}))

	series, err := c.FetchHistory(context.Background(), "NOPE", time.Now(), time.Now())
	require.NoError(t, err)
	assert.True(t, series.Empty())
}

func TestCSV_FetchHistory_RejectsPaths(t *testing.T) {
	c := New()
	require.NoError(t, c.Init(collector.Config{Dir: t.TempDir()}))

	_, err := c.FetchHistory(context.Background(), "../etc/passwd", time.Now(), time.Now())
	assert.Error(t, err)
}

func TestCSV_Init(t *testing.T) {
	assert.Error(t, New().Init(collector.Config{}))
	assert.Error(t, New().Init(collector.Config{Dir: filepath.Join(t.TempDir(), "missing")}))
	assert.Equal(t, "csv", New().Name())
}
