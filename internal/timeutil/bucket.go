// Package timeutil derives calendar buckets from transaction dates.
// Buckets are computed once on the write path and stored alongside the
// date; the aggregation services trust the stored values.
package timeutil

import "time"

// Bucket derives the (week, month, year) bucket for a calendar date.
// Week numbering follows ISO 8601 week-of-year semantics (1..53); month
// and year are taken from the calendar date itself.
func Bucket(t time.Time) (week, month, year int) {
	_, week = t.ISOWeek()
	return week, int(t.Month()), t.Year()
}

// DaysInMonth returns the number of days in the given month, accounting
// for leap years.
func DaysInMonth(month, year int) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfMonth returns midnight UTC on the first day of the given month.
func StartOfMonth(month, year int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}
