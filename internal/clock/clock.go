// Package clock abstracts calendar time so the accrual scheduler can be
// driven by simulated dates in tests instead of ambient system time.
package clock

import "time"

// Clock supplies the current instant. Injected everywhere the billing core
// needs "today" — never read time.Now directly in scheduling decisions.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Fixed is a Clock pinned to a single instant, for tests.
type Fixed struct{ T time.Time }

func (f Fixed) Now() time.Time { return f.T }

// DateOnly truncates t to midnight UTC of the same calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Period normalizes t to the first day of its calendar month (UTC midnight).
// Receipts and month debts are keyed by this value.
func Period(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// LastDayOfMonth returns the last calendar day number of t's month,
// resolving 28/29/30/31 correctly (day 0 of the next month).
func LastDayOfMonth(t time.Time) int {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsAccrualBoundary reports whether d falls on one of the three fixed
// interest triggers of the month: day 10, day 20, or the last calendar day.
func IsAccrualBoundary(d time.Time) bool {
	day := d.UTC().Day()
	return day == 10 || day == 20 || day == LastDayOfMonth(d)
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
