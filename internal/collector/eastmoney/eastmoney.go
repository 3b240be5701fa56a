package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/stockcast/internal/collector"
	"github.com/newthinker/stockcast/internal/core"
)

const historyURL = "https://push2his.eastmoney.com/api/qt/stock/kline/get"

// Eastmoney fetches daily klines for Shanghai, Shenzhen and Hong Kong listings
type Eastmoney struct {
	client  *http.Client
	baseURL string
}

// New creates a new Eastmoney collector
func New() *Eastmoney {
	return &Eastmoney{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: historyURL,
	}
}

func (e *Eastmoney) Name() string {
	return "eastmoney"
}

func (e *Eastmoney) Init(cfg collector.Config) error {
	if cfg.BaseURL != "" {
		e.baseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		e.client.Timeout = cfg.Timeout
	}
	return nil
}

// secID converts 600519.SH to 1.600519. Shanghai = 1, Shenzhen = 0, Hong Kong = 116.
func secID(symbol string) (string, error) {
	code, suffix, ok := strings.Cut(strings.ToUpper(symbol), ".")
	if !ok || code == "" {
		return "", fmt.Errorf("symbol %q needs an exchange suffix (.SH, .SZ or .HK)", symbol)
	}

	switch suffix {
	case "SH", "SS":
		return "1." + code, nil
	case "SZ":
		return "0." + code, nil
	case "HK":
		// Hong Kong codes are five digits on eastmoney
		if len(code) < 5 {
			code = strings.Repeat("0", 5-len(code)) + code
		}
		return "116." + code, nil
	default:
		return "", fmt.Errorf("unsupported exchange %q", suffix)
	}
}

// FetchHistory fetches forward-adjusted daily bars in [start, end]
func (e *Eastmoney) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (core.PriceSeries, error) {
	id, err := secID(symbol)
	if err != nil {
		return core.PriceSeries{}, err
	}

	params := url.Values{}
	params.Set("secid", id)
	params.Set("klt", "101") // daily
	params.Set("fqt", "1")   // forward adjusted
	params.Set("beg", core.DateOf(start).Format("20060102"))
	params.Set("end", core.DateOf(end).Format("20060102"))
	params.Set("fields1", "f1,f2,f3,f4,f5,f6")
	params.Set("fields2", "f51,f52,f53,f54,f55,f56")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return core.PriceSeries{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return core.PriceSeries{}, fmt.Errorf("fetching history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.PriceSeries{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return core.PriceSeries{}, fmt.Errorf("decoding response: %w", err)
	}

	series := core.PriceSeries{Ticker: symbol}
	if result.Data == nil {
		return series, nil
	}

	series.Bars = make([]core.Bar, 0, len(result.Data.Klines))
	for _, line := range result.Data.Klines {
		bar, err := parseKline(line)
		if err != nil {
			return core.PriceSeries{}, err
		}
		series.Bars = append(series.Bars, bar)
	}
	return series, nil
}

// parseKline reads "date,open,close,high,low,volume".
func parseKline(line string) (core.Bar, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 6 {
		return core.Bar{}, fmt.Errorf("kline %q: expected 6 fields, got %d", line, len(fields))
	}

	date, err := time.Parse(core.DateLayout, fields[0])
	if err != nil {
		return core.Bar{}, fmt.Errorf("kline %q: %w", line, err)
	}

	var vals [5]float64
	for i := range vals {
		vals[i], err = strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return core.Bar{}, fmt.Errorf("kline %q: %w", line, err)
		}
	}

	return core.Bar{
		Date:   date,
		Open:   vals[0],
		Close:  vals[1],
		High:   vals[2],
		Low:    vals[3],
		Volume: vals[4],
	}, nil
}

type historyResponse struct {
	Data *historyData `json:"data"`
}

type historyData struct {
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	Klines []string `json:"klines"`
}
