package returns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carstudy/internal/marketdata"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func buildPanel(t *testing.T, prices map[string]map[time.Time]float64, order []string) *marketdata.Panel {
	t.Helper()
	records := make(map[string][]marketdata.PriceRecord)
	for tic, col := range prices {
		for date, price := range col {
			records[tic] = append(records[tic], marketdata.PriceRecord{Date: date, AdjClose: price})
		}
	}
	return marketdata.BuildPanel(order, records)
}

func TestSimple(t *testing.T) {
	panel := buildPanel(t, map[string]map[time.Time]float64{
		"aapl": {
			day(2020, 10, 5): 100.0,
			day(2020, 10, 6): 110.0,
			day(2020, 10, 7): 99.0,
		},
	}, []string{"aapl"})

	s := Simple(panel, "aapl")
	require.Equal(t, 2, s.Len())

	// First observation has no return.
	_, ok := s.Value(day(2020, 10, 5))
	assert.False(t, ok)

	v, ok := s.Value(day(2020, 10, 6))
	require.True(t, ok)
	assert.InDelta(t, 0.10, v, 1e-9)

	v, ok = s.Value(day(2020, 10, 7))
	require.True(t, ok)
	assert.InDelta(t, -0.10, v, 1e-9)
}

func TestSimpleUsesPriorAvailableRow(t *testing.T) {
	// tsla trades on the 5th and 8th only; the panel index also holds the
	// 6th and 7th from aapl. The return on the 8th must be computed against
	// the 5th, the prior available observation, not the calendar-previous
	// day.
	panel := buildPanel(t, map[string]map[time.Time]float64{
		"aapl": {
			day(2020, 10, 5): 1.0,
			day(2020, 10, 6): 1.0,
			day(2020, 10, 7): 1.0,
			day(2020, 10, 8): 1.0,
		},
		"tsla": {
			day(2020, 10, 5): 200.0,
			day(2020, 10, 8): 220.0,
		},
	}, []string{"aapl", "tsla"})

	s := Simple(panel, "tsla")
	require.Equal(t, 1, s.Len())

	v, ok := s.Value(day(2020, 10, 8))
	require.True(t, ok)
	assert.InDelta(t, 0.10, v, 1e-9)
}

func TestSimpleUnknownTicker(t *testing.T) {
	panel := buildPanel(t, map[string]map[time.Time]float64{
		"aapl": {day(2020, 10, 5): 1.0},
	}, []string{"aapl"})

	s := Simple(panel, "msft")
	assert.Equal(t, 0, s.Len())
}

func TestAbnormal(t *testing.T) {
	rets := NewSeries(map[time.Time]float64{
		day(2020, 10, 6): 0.10,
		day(2020, 10, 7): -0.10,
		day(2020, 10, 8): 0.05,
	})
	market := marketdata.MarketFactors{
		day(2020, 10, 6): 0.01,
		day(2020, 10, 8): -0.02,
		day(2020, 10, 9): 0.03, // market-only date must not appear
	}

	aret := Abnormal(rets, market)
	require.Equal(t, 2, aret.Len())

	v, ok := aret.Value(day(2020, 10, 6))
	require.True(t, ok)
	assert.InDelta(t, 0.09, v, 1e-9)

	v, ok = aret.Value(day(2020, 10, 8))
	require.True(t, ok)
	assert.InDelta(t, 0.07, v, 1e-9)

	// The 7th had a return but no market factor: dropped by the inner join.
	_, ok = aret.Value(day(2020, 10, 7))
	assert.False(t, ok)
	_, ok = aret.Value(day(2020, 10, 9))
	assert.False(t, ok)
}

func TestSeriesDatesAscending(t *testing.T) {
	s := NewSeries(map[time.Time]float64{
		day(2020, 10, 8): 0.1,
		day(2020, 10, 5): 0.2,
		day(2020, 10, 6): 0.3,
	})

	dates := s.Dates()
	require.Len(t, dates, 3)
	assert.True(t, dates[0].Before(dates[1]))
	assert.True(t, dates[1].Before(dates[2]))
}
