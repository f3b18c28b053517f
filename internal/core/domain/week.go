package domain

import "time"

// WeekWindow bounds the current tracking period. Both intervals are half-open
// toward the future: [WeekStart, +inf) and [TodayStart, +inf).
type WeekWindow struct {
	WeekStart  time.Time
	TodayStart time.Time
}

// WeekWindowAt computes the window for the given instant in its own location.
// Weeks start on Monday at 00:00:00 local time: on a Sunday the week began
// six days earlier, otherwise weekday-1 days earlier (Monday = 1).
//
// The result depends only on the instant and its location, so callers can
// re-derive the exact same bounds for the database filter and for local
// re-partitioning of fetched rows.
func WeekWindowAt(now time.Time) WeekWindow {
	year, month, day := now.Date()
	todayStart := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	daysBack := int(now.Weekday()) - 1
	if now.Weekday() == time.Sunday {
		daysBack = 6
	}

	return WeekWindow{
		WeekStart:  todayStart.AddDate(0, 0, -daysBack),
		TodayStart: todayStart,
	}
}
