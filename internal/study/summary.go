package study

import (
	"sort"
)

// TypeSummary is the mean CAR over all events of one type.
type TypeSummary struct {
	Type    EventType
	Events  int
	MeanCAR float64
}

// SummarizeByType groups CAR rows by event type and computes the mean CAR
// per type, sorted by type name. An empty input yields an empty slice.
func SummarizeByType(cars []CAR) []TypeSummary {
	sums := make(map[EventType]float64)
	counts := make(map[EventType]int)
	for _, car := range cars {
		sums[car.Type] += car.Value
		counts[car.Type]++
	}

	types := make([]EventType, 0, len(sums))
	for t := range sums {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	out := make([]TypeSummary, 0, len(types))
	for _, t := range types {
		out = append(out, TypeSummary{
			Type:    t,
			Events:  counts[t],
			MeanCAR: sums[t] / float64(counts[t]),
		})
	}
	return out
}
