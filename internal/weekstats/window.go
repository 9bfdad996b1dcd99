package weekstats

import (
	"time"
)

// WeekWindow returns the [start, end) range of the week containing now, in now's location.
// The week starts at midnight on Sunday, or on Monday when startOnMonday is set.
func WeekWindow(now time.Time, startOnMonday bool) (time.Time, time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// weekday 0 = Sunday, 1 = Monday, ..., 6 = Saturday
	daysSinceStart := int(midnight.Weekday())
	if startOnMonday {
		daysSinceStart = (daysSinceStart + 6) % 7
	}

	start := midnight.AddDate(0, 0, -daysSinceStart)
	return start, start.AddDate(0, 0, DaysInWeek)
}
