package domain

import "time"

// Streak arithmetic is calendar-date based, not elapsed-hours: two
// interactions at 23:59 and 00:01 are on consecutive days.

// DayOf truncates a time to its UTC calendar date.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two times fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}

// DaysBetween returns the whole calendar days from a to b (positive when
// b is later).
func DaysBetween(a, b time.Time) int {
	return int(DayOf(b).Sub(DayOf(a)).Hours() / 24)
}
