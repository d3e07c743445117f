package shared

import (
	"fmt"
	"time"
)

// WeekStart maps an instant to the Monday 00:00:00 of its containing week in UTC.
//
// Sunday counts as the seventh day of the prior week, so a Sunday instant
// maps to the preceding Monday. Every entity keyed by week stores this
// exact value, which keeps week lookups exact-match instead of ranged.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	days := int(t.Weekday()) - int(time.Monday)
	if days < 0 {
		days += 7
	}
	monday := t.AddDate(0, 0, -days)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekEnd returns the Sunday of the week beginning at weekStart.
func WeekEnd(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 6)
}

// FormatWeekRange renders a Monday-to-Sunday span for playlist naming,
// e.g. "Jan 6, 2025 - Jan 12, 2025".
func FormatWeekRange(weekStart time.Time) string {
	const layout = "Jan 2, 2006"
	return fmt.Sprintf("%s - %s", weekStart.Format(layout), WeekEnd(weekStart).Format(layout))
}
