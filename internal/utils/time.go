package utils

import (
	"errors"
	"time"
)

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsPeakHour reports whether t is inside a weekday rush window,
// 07:00-10:00 or 17:00-21:00 (end exclusive).
func IsPeakHour(t time.Time) bool {
	if IsWeekend(t) {
		return false
	}
	h := t.Hour()
	return (h >= 7 && h < 10) || (h >= 17 && h < 21)
}

// AtTimeOfDay returns t moved to the HH:MM clock time on the same date.
func AtTimeOfDay(t time.Time, hhmm string) (time.Time, error) {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return t, errors.New("invalid time format, use HH:MM")
	}
	return time.Date(t.Year(), t.Month(), t.Day(), parsed.Hour(), parsed.Minute(), 0, 0, t.Location()), nil
}
