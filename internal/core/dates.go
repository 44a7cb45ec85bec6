// Package core holds the domain model plus money and calendar utilities.
//
// Dates are carried as plain YYYY-MM-DD strings and parsed field by field.
// Going through time.Parse with a timezone would shift a bare calendar date
// across midnight for non-UTC hosts; the record's date must stay the date
// the user typed.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseLocalDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseLocalDate(s string) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, ErrInvalidDate
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return time.Time{}, ErrInvalidDate
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, ErrInvalidDate
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > DaysInMonth(year, month) {
		return time.Time{}, ErrInvalidDate
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// DaysInMonth returns the number of days in the given month, via the
// "day 0 of the next month" trick.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthKey formats a year and 1-indexed month as YYYY-MM. Zero padding keeps
// keys comparable with plain string ordering.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ValidMonthKey reports whether s is a well-formed YYYY-MM string.
func ValidMonthKey(s string) bool {
	if len(s) != 7 || s[4] != '-' {
		return false
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil || year < 1 {
		return false
	}
	month, err := strconv.Atoi(s[5:])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	return true
}

// MonthOf extracts the YYYY-MM grouping key from a date string. Records with
// an unusable date report ok=false and are skipped by aggregation.
func MonthOf(date string) (string, bool) {
	if len(date) < 7 || date[4] != '-' {
		return "", false
	}
	return date[:7], true
}

// SubtractMonths subtracts n months from a year and 1-indexed month,
// borrowing years when the month drops below January.
func SubtractMonths(year, month, n int) (int, int) {
	m := month - n
	for m < 1 {
		m += 12
		year--
	}
	return year, m
}

// DaysUntil returns the number of whole days from now (midnight-truncated)
// until the given date. Negative values mean the date has passed. The second
// return is false when the date string is unusable.
func DaysUntil(date string, now time.Time) (int, bool) {
	target, err := ParseLocalDate(date)
	if err != nil {
		return 0, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24), true
}

// Lease urgency buckets, derived from days remaining on the lease.
const (
	LeaseExpired    = "expired"
	LeaseEndingSoon = "ending-soon" // 30 days or less
	LeaseUpcoming   = "upcoming"    // 90 days or less
	LeaseOK         = "ok"
)

// LeaseStatus classifies a lease-end date relative to now. Returns "" when
// the date is absent or unparseable.
func LeaseStatus(leaseEnd string, now time.Time) string {
	if leaseEnd == "" {
		return ""
	}
	days, ok := DaysUntil(leaseEnd, now)
	if !ok {
		return ""
	}
	switch {
	case days < 0:
		return LeaseExpired
	case days <= 30:
		return LeaseEndingSoon
	case days <= 90:
		return LeaseUpcoming
	default:
		return LeaseOK
	}
}
