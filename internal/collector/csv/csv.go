// Package csv provides an offline collector reading <dir>/<TICKER>.csv files.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/stockcast/internal/collector"
	"github.com/newthinker/stockcast/internal/core"
)

var columns = []string{"date", "open", "high", "low", "close", "volume"}

// CSV implements collector.Collector over a directory of daily bar files.
type CSV struct {
	dir string
}

// New creates a CSV collector; Init sets the directory.
func New() *CSV {
	return &CSV{}
}

func (c *CSV) Name() string {
	return "csv"
}

func (c *CSV) Init(cfg collector.Config) error {
	if cfg.Dir == "" {
		return errors.New("csv directory is required")
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return fmt.Errorf("csv directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("csv directory: %s is not a directory", cfg.Dir)
	}
	c.dir = cfg.Dir
	return nil
}

// FetchHistory reads the ticker's file and keeps rows dated in [start, end].
// A missing file is an empty series, not an error.
func (c *CSV) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (core.PriceSeries, error) {
	if strings.ContainsAny(symbol, `/\`) || symbol == "" || strings.Contains(symbol, "..") {
		return core.PriceSeries{}, fmt.Errorf("invalid symbol: %q", symbol)
	}

	f, err := os.Open(filepath.Join(c.dir, symbol+".csv"))
	if errors.Is(err, os.ErrNotExist) {
		return core.PriceSeries{Ticker: symbol}, nil
	}
	if err != nil {
		return core.PriceSeries{}, err
	}
	defer f.Close()

	bars, err := Read(f)
	if err != nil {
		return core.PriceSeries{}, fmt.Errorf("reading %s.csv: %w", symbol, err)
	}

	from, to := core.DateOf(start), core.DateOf(end)
	kept := bars[:0]
	for _, b := range bars {
		if b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		kept = append(kept, b)
	}

	return core.PriceSeries{Ticker: symbol, Bars: kept}, nil
}

// Read parses daily bars from r. The header row must name the date, open,
// high, low, close and volume columns in any order; other columns are
// ignored. Rows with an empty close or a "null"/"NaN" close are skipped.
func Read(r io.Reader) ([]core.Bar, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(columns))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.Trim(h, "\"")))] = i
	}
	for _, col := range columns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var bars []core.Bar
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		closeStr := field(record, idx["close"])
		if closeStr == "" || closeStr == "null" || closeStr == "NaN" {
			continue
		}

		date, err := time.Parse(core.DateLayout, field(record, idx["date"]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		bar := core.Bar{Date: date}
		for _, col := range columns[1:] {
			s := field(record, idx[col])
			if s == "" {
				continue
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, col, err)
			}
			switch col {
			case "open":
				bar.Open = v
			case "high":
				bar.High = v
			case "low":
				bar.Low = v
			case "close":
				bar.Close = v
			case "volume":
				bar.Volume = v
			}
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(strings.Trim(record[i], "\""))
}
