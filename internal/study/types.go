package study

import (
	"time"
)

// EventType classifies the net direction of an event.
type EventType string

const (
	// EventUpgrade is a net positive recommendation change.
	EventUpgrade EventType = "upgrade"
	// EventDowngrade is a net negative recommendation change.
	EventDowngrade EventType = "downgrade"
)

// Directional action strings recognized by the detector. Any other action
// ("init", "main", free text, empty) carries no direction and is discarded.
const (
	ActionUp   = "up"
	ActionDown = "down"
)

// DefaultTopFirms is the number of most-active firms retained per ticker.
const DefaultTopFirms = 30

// DefaultWindow is the default event-window half-width in calendar days.
const DefaultWindow = 2

// Event is a dated, firm-attributed net upgrade or downgrade signal for one
// ticker, uniquely identified by the (Day, Firm) pair. IDs are dense,
// starting at 1, assigned in ascending (Day, Firm) order.
type Event struct {
	ID   int
	Day  time.Time
	Firm string
	Type EventType
}

// WindowRow is one calendar offset of one event's window. RetDate is the
// event day shifted by EventTime calendar days, with no trading-calendar
// adjustment: weekends and holidays appear here and drop out later at the
// abnormal-return join.
type WindowRow struct {
	EventID   int
	Firm      string
	EventDate time.Time
	EventTime int
	RetDate   time.Time
	Type      EventType
}

// CAR is the cumulative abnormal return of one event for one ticker: the
// sum of abnormal returns over the window dates that matched trading days.
// An event whose window matched no trading day has Value 0.
type CAR struct {
	EventID int
	Type    EventType
	Ticker  string
	Value   float64
}
