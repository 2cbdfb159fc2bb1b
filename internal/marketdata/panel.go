package marketdata

import (
	"sort"
	"time"
)

// Panel is a date-indexed adjusted-close price table with one column per
// ticker. The row index is the sorted union of every ticker's observed
// dates; a ticker with no observation on a date held by another ticker has
// an absent cell there, not a dropped row. Column order follows the ticker
// list. A Panel is an immutable snapshot once built.
type Panel struct {
	dates   []time.Time
	tickers []string
	cells   map[string]map[time.Time]float64
}

// BuildPanel assembles the adjusted-close panel from per-ticker price
// records. The tickers slice fixes column order; records must contain an
// entry for every ticker in it.
func BuildPanel(tickers []string, records map[string][]PriceRecord) *Panel {
	cells := make(map[string]map[time.Time]float64, len(tickers))
	union := make(map[time.Time]bool)

	for _, tic := range tickers {
		col := make(map[time.Time]float64, len(records[tic]))
		for _, rec := range records[tic] {
			col[rec.Date] = rec.AdjClose
			union[rec.Date] = true
		}
		cells[tic] = col
	}

	dates := make([]time.Time, 0, len(union))
	for d := range union {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	cols := make([]string, len(tickers))
	copy(cols, tickers)

	return &Panel{dates: dates, tickers: cols, cells: cells}
}

// Dates returns the panel's row index: the ascending union of all observed
// dates across tickers.
func (p *Panel) Dates() []time.Time {
	out := make([]time.Time, len(p.dates))
	copy(out, p.dates)
	return out
}

// Tickers returns the panel's column order.
func (p *Panel) Tickers() []string {
	out := make([]string, len(p.tickers))
	copy(out, p.tickers)
	return out
}

// Price returns the adjusted close for a ticker on a date. The second value
// is false when the ticker has no observation that day.
func (p *Panel) Price(ticker string, date time.Time) (float64, bool) {
	col, ok := p.cells[ticker]
	if !ok {
		return 0, false
	}
	v, ok := col[date]
	return v, ok
}
