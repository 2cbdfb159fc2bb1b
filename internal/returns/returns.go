// Package returns derives per-ticker return series from the price panel:
// simple returns over the panel's sorted date order, and abnormal returns
// net of the market factor.
package returns

import (
	"sort"
	"time"

	"carstudy/internal/marketdata"
)

// Series is a date-indexed return series for one ticker, defined only on
// the dates it holds. Dates iterate in ascending order.
type Series struct {
	dates  []time.Time
	values map[time.Time]float64
}

// NewSeries builds a series from a date-to-value map.
func NewSeries(values map[time.Time]float64) *Series {
	dates := make([]time.Time, 0, len(values))
	for d := range values {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	copied := make(map[time.Time]float64, len(values))
	for d, v := range values {
		copied[d] = v
	}
	return &Series{dates: dates, values: copied}
}

// Len returns the number of dates the series is defined on.
func (s *Series) Len() int { return len(s.dates) }

// Dates returns the series' dates in ascending order.
func (s *Series) Dates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

// Value returns the return on a date. The second value is false when the
// series is not defined there.
func (s *Series) Value(date time.Time) (float64, bool) {
	v, ok := s.values[date]
	return v, ok
}

// Simple computes a ticker's simple returns from the panel:
// (price[t] - price[prev]) / price[prev], where prev is the immediately
// preceding available observation in the panel's sorted date order, not the
// calendar-previous day. The ticker's first observation has no return and
// is absent from the result.
func Simple(panel *marketdata.Panel, ticker string) *Series {
	values := make(map[time.Time]float64)

	havePrev := false
	var prev float64
	for _, date := range panel.Dates() {
		price, ok := panel.Price(ticker, date)
		if !ok {
			continue
		}
		if havePrev {
			values[date] = (price - prev) / prev
		}
		prev = price
		havePrev = true
	}

	return NewSeries(values)
}

// Abnormal subtracts the market factor from a return series, keeping only
// dates present on both sides (inner join). Dates absent from either side
// drop out: abnormal returns exist only on days both the market and the
// asset traded.
func Abnormal(rets *Series, market marketdata.MarketFactors) *Series {
	values := make(map[time.Time]float64)
	for _, date := range rets.Dates() {
		mkt, ok := market[date]
		if !ok {
			continue
		}
		ret, _ := rets.Value(date)
		values[date] = ret - mkt
	}
	return NewSeries(values)
}
