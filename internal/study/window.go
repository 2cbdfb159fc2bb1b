package study

// ExpandWindows expands each event into 2W+1 window rows, one per calendar
// offset from -W to W inclusive in ascending order, where W is halfWidth.
// RetDate is the event day plus the offset in calendar days; no
// trading-calendar adjustment happens here. Non-trading dates are filtered
// later by the abnormal-return join, which keeps the expansion correct for
// arbitrary holiday calendars.
func ExpandWindows(events []Event, halfWidth int) []WindowRow {
	if halfWidth < 0 {
		halfWidth = DefaultWindow
	}

	rows := make([]WindowRow, 0, len(events)*(2*halfWidth+1))
	for _, ev := range events {
		for offset := -halfWidth; offset <= halfWidth; offset++ {
			rows = append(rows, WindowRow{
				EventID:   ev.ID,
				Firm:      ev.Firm,
				EventDate: ev.Day,
				EventTime: offset,
				RetDate:   ev.Day.AddDate(0, 0, offset),
				Type:      ev.Type,
			})
		}
	}
	return rows
}
