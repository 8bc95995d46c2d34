package schedule

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// WeekStart returns the Monday on or before t. Sundays resolve to the Monday
// six days earlier (ISO week semantics).
func WeekStart(t time.Time) time.Time {
	day := NormalizeDate(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// AddWeeks shifts a week start by n*7 calendar days. n may be negative or
// zero; month and year boundaries are handled by the calendar arithmetic.
func AddWeeks(weekStart time.Time, n int) time.Time {
	return NormalizeDate(weekStart).AddDate(0, 0, n*7)
}

// WeekDates returns the seven consecutive dates starting at weekStart.
func WeekDates(weekStart time.Time) [7]time.Time {
	start := NormalizeDate(weekStart)
	var dates [7]time.Time
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// WeekEnd returns the Sunday closing the week that starts at weekStart.
func WeekEnd(weekStart time.Time) time.Time {
	return NormalizeDate(weekStart).AddDate(0, 0, 6)
}

// NormalizeDate strips the clock and time zone, leaving a pure UTC calendar date.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD wire date.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// FormatDate renders a date in the YYYY-MM-DD wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
