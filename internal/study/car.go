package study

import (
	"sort"
	"strings"

	"carstudy/internal/returns"
)

// AggregateCAR joins one ticker's window rows against its abnormal-return
// series on exact RetDate match and sums matched returns per event. The
// join is inner: window dates with no trading return vanish silently, which
// is why a 5-offset window typically contributes 2-5 returns. An event
// whose window matches nothing still yields a CAR row with Value 0, the sum
// over an empty set.
//
// The ticker is attached as a literal constant, lower-cased and trimmed,
// not derived from the join. Rows come back in ascending event ID order.
func AggregateCAR(ticker string, rows []WindowRow, aret *returns.Series) []CAR {
	ticker = strings.ToLower(strings.TrimSpace(ticker))

	sums := make(map[int]float64)
	types := make(map[int]EventType)
	for _, row := range rows {
		if _, seen := types[row.EventID]; !seen {
			types[row.EventID] = row.Type
			sums[row.EventID] = 0
		}
		v, ok := aret.Value(row.RetDate)
		if !ok {
			continue
		}
		sums[row.EventID] += v
	}

	ids := make([]int, 0, len(sums))
	for id := range sums {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	cars := make([]CAR, 0, len(ids))
	for _, id := range ids {
		cars = append(cars, CAR{
			EventID: id,
			Type:    types[id],
			Ticker:  ticker,
			Value:   sums[id],
		})
	}
	return cars
}
