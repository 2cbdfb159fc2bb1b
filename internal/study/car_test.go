package study

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carstudy/internal/returns"
)

func TestAggregateCARSingleDowngrade(t *testing.T) {
	// A single "down" from Wunderlich on 2012-02-16 with abnormal returns
	// defined on every window date sums all five daily returns.
	events := []Event{
		{ID: 1, Day: day(2012, 2, 16), Firm: "Wunderlich", Type: EventDowngrade},
	}
	rows := ExpandWindows(events, 2)

	aret := returns.NewSeries(map[time.Time]float64{
		day(2012, 2, 14): 0.01,
		day(2012, 2, 15): -0.02,
		day(2012, 2, 16): -0.05,
		day(2012, 2, 17): 0.005,
		day(2012, 2, 18): 0.015,
	})

	cars := AggregateCAR("AAPL ", rows, aret)
	require.Len(t, cars, 1)

	assert.Equal(t, 1, cars[0].EventID)
	assert.Equal(t, EventDowngrade, cars[0].Type)
	assert.Equal(t, "aapl", cars[0].Ticker) // lower-cased, trimmed literal
	assert.InDelta(t, 0.01-0.02-0.05+0.005+0.015, cars[0].Value, 1e-12)
}

func TestAggregateCARDropsNonTradingDates(t *testing.T) {
	events := []Event{
		{ID: 1, Day: day(2020, 7, 28), Firm: "Bernstein", Type: EventDowngrade},
	}
	rows := ExpandWindows(events, 2)

	// Only three of the five window dates are trading days.
	aret := returns.NewSeries(map[time.Time]float64{
		day(2020, 7, 27): 0.01,
		day(2020, 7, 28): -0.03,
		day(2020, 7, 29): 0.02,
	})

	cars := AggregateCAR("aapl", rows, aret)
	require.Len(t, cars, 1)
	assert.InDelta(t, 0.01-0.03+0.02, cars[0].Value, 1e-12)
}

func TestAggregateCAREmptyWindowMatchesZero(t *testing.T) {
	events := []Event{
		{ID: 1, Day: day(2020, 7, 28), Firm: "Bernstein", Type: EventUpgrade},
	}
	rows := ExpandWindows(events, 2)

	// No window date is a trading day: the event still yields a CAR row
	// with value 0, the sum over the empty set.
	aret := returns.NewSeries(map[time.Time]float64{
		day(2020, 9, 1): 0.5,
	})

	cars := AggregateCAR("aapl", rows, aret)
	require.Len(t, cars, 1)
	assert.Equal(t, 0.0, cars[0].Value)
	assert.Equal(t, EventUpgrade, cars[0].Type)
}

func TestAggregateCAROrderInvariant(t *testing.T) {
	events := []Event{
		{ID: 1, Day: day(2020, 1, 10), Firm: "a", Type: EventUpgrade},
		{ID: 2, Day: day(2020, 1, 12), Firm: "b", Type: EventDowngrade},
	}
	rows := ExpandWindows(events, 2)

	values := make(map[time.Time]float64)
	rng := rand.New(rand.NewSource(3))
	for d := day(2020, 1, 7); d.Before(day(2020, 1, 16)); d = d.AddDate(0, 0, 1) {
		values[d] = rng.NormFloat64() / 100
	}
	aret := returns.NewSeries(values)

	want := AggregateCAR("aapl", rows, aret)
	require.Len(t, want, 2)

	for trial := 0; trial < 5; trial++ {
		shuffled := make([]WindowRow, len(rows))
		copy(shuffled, rows)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		got := AggregateCAR("aapl", shuffled, aret)
		require.Len(t, got, 2)
		for i := range want {
			assert.Equal(t, want[i].EventID, got[i].EventID)
			assert.Equal(t, want[i].Type, got[i].Type)
			assert.InDelta(t, want[i].Value, got[i].Value, 1e-12)
		}
	}
}

func TestAggregateCAREmptyInput(t *testing.T) {
	aret := returns.NewSeries(nil)
	assert.Empty(t, AggregateCAR("aapl", nil, aret))
}
