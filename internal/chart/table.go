package chart

import (
	"strconv"

	"github.com/newthinker/stockcast/internal/core"
)

// TableColumns are the headers of the historical data table.
var TableColumns = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// Row is one formatted bar.
type Row struct {
	Date   string `json:"date"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
}

// Cells returns the row values in TableColumns order.
func (r Row) Cells() []string {
	return []string{r.Date, r.Open, r.High, r.Low, r.Close, r.Volume}
}

// Table is the historical OHLCV dump shown under the chart.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable formats one row per bar, oldest first.
func NewTable(series core.PriceSeries) Table {
	rows := make([]Row, len(series.Bars))
	for i, b := range series.Bars {
		rows[i] = Row{
			Date:   b.Date.Format(core.DateLayout),
			Open:   price(b.Open),
			High:   price(b.High),
			Low:    price(b.Low),
			Close:  price(b.Close),
			Volume: strconv.FormatFloat(b.Volume, 'f', 0, 64),
		}
	}
	return Table{Columns: TableColumns, Rows: rows}
}

func price(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
