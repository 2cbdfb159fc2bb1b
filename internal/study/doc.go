// Package study implements the event-study core: collapsing analyst
// recommendations into discrete scored events, expanding each event into a
// calendar window, and summing matched abnormal returns into cumulative
// abnormal returns (CARs).
//
// The package is organized one file per concern:
//
//   - types.go: event, window-row, and CAR structures
//   - events.go: top-firm filtering, directional scoring, event ID assignment
//   - window.go: calendar-offset expansion around each event
//   - car.go: trading-day join and per-event summation
//   - summary.go: mean CAR by event type
//
// Every function is a pure, deterministic function of its inputs: identical
// inputs yield identical events and IDs regardless of input row order.
package study
