package study

import (
	"sort"
	"time"

	"carstudy/internal/marketdata"
)

// DetectEvents collapses one ticker's recommendation stream into scored
// events. Steps, strictly ordered:
//
//  1. Rank firms by recommendation count descending, ties broken by firm
//     name ascending, and keep only the top topFirms firms.
//  2. Keep only records whose action is exactly "up" or "down".
//  3. Score +1 per "up", -1 per "down"; sum scores per (event day, firm).
//  4. A positive sum is an upgrade, a negative sum a downgrade; a sum of
//     exactly zero drops the group entirely.
//  5. Sort surviving groups by (event day, firm) ascending and assign dense
//     IDs 1, 2, 3, ...
//
// The result is a total, deterministic function of the record set: shuffling
// the input rows yields identical events with identical IDs. Zero surviving
// records yield an empty slice, not an error.
func DetectEvents(recs []marketdata.Recommendation, topFirms int) []Event {
	if topFirms <= 0 {
		topFirms = DefaultTopFirms
	}

	top := topFirmSet(recs, topFirms)

	type groupKey struct {
		day  time.Time
		firm string
	}
	scores := make(map[groupKey]int)
	for _, rec := range recs {
		if !top[rec.Firm] {
			continue
		}
		var score int
		switch rec.Action {
		case ActionUp:
			score = 1
		case ActionDown:
			score = -1
		default:
			continue
		}
		scores[groupKey{day: rec.EventDay, firm: rec.Firm}] += score
	}

	events := make([]Event, 0, len(scores))
	for key, sum := range scores {
		if sum == 0 {
			continue
		}
		etype := EventUpgrade
		if sum < 0 {
			etype = EventDowngrade
		}
		events = append(events, Event{Day: key.day, Firm: key.firm, Type: etype})
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Day.Equal(events[j].Day) {
			return events[i].Day.Before(events[j].Day)
		}
		return events[i].Firm < events[j].Firm
	})
	for i := range events {
		events[i].ID = i + 1
	}

	return events
}

// topFirmSet returns the firms that survive the top-N filter: ranked by
// total recommendation count descending, ties broken by firm name
// ascending, first n kept.
func topFirmSet(recs []marketdata.Recommendation, n int) map[string]bool {
	counts := make(map[string]int)
	for _, rec := range recs {
		counts[rec.Firm]++
	}

	firms := make([]string, 0, len(counts))
	for firm := range counts {
		firms = append(firms, firm)
	}
	sort.Slice(firms, func(i, j int) bool {
		if counts[firms[i]] != counts[firms[j]] {
			return counts[firms[i]] > counts[firms[j]]
		}
		return firms[i] < firms[j]
	})

	if len(firms) > n {
		firms = firms[:n]
	}

	top := make(map[string]bool, len(firms))
	for _, firm := range firms {
		top[firm] = true
	}
	return top
}
