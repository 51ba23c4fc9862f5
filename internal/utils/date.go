package utils

import (
	"fmt"
	"time"
)

// StartOfDay truncates t to 00:00 in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 00:00 of the following day, for use as an exclusive bound.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseDate accepts an RFC3339 timestamp or a bare "2006-01-02" date.
func ParseDate(str string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, str)
	if err != nil {
		parsed, err = time.ParseInLocation("2006-01-02", str, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %v", err)
		}
	}
	return parsed, nil
}
