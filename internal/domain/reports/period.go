// Package reports implements the revenue/aggregation engine: period
// resolution and the rollup rules every reporting surface shares.
package reports

import (
	"time"
)

// Business clock runs on a fixed UTC+3 offset, not a tz database zone.
const clockOffset = 3 * time.Hour

// Period tokens accepted by ResolvePeriod.
const (
	PeriodDay       = "day"
	PeriodWeek      = "week"
	PeriodThisWeek  = "this_week"
	PeriodMonth     = "month"
	PeriodThisMonth = "this_month"
	PeriodLastMonth = "last_month"
	PeriodThisYear  = "this_year"
	PeriodAll       = "all"
	PeriodCustom    = "custom"
)

// Range is an inclusive calendar date range. A nil bound means
// unbounded on that side; the all-time period leaves both open.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// Unbounded reports whether the range has no bounds at all.
func (r Range) Unbounded() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether the date falls inside the range.
func (r Range) Contains(date time.Time) bool {
	d := dateOnly(date)
	if r.Start != nil && d.Before(*r.Start) {
		return false
	}
	if r.End != nil && d.After(*r.End) {
		return false
	}
	return true
}

// ResolvePeriod turns a period token into a date range, evaluated
// against the business clock (UTC+3). Weeks start on Monday.
// The custom token parses two ISO dates; missing or malformed values
// silently fall back to the current month, matching the established
// reporting behavior.
func ResolvePeriod(token string, now time.Time, customStart, customEnd string) Range {
	today := dateOnly(now.UTC().Add(clockOffset))

	switch token {
	case PeriodDay:
		return boundedRange(today, today)
	case PeriodWeek, PeriodThisWeek:
		start := mondayOf(today)
		return boundedRange(start, start.AddDate(0, 0, 6))
	case PeriodMonth, PeriodThisMonth:
		return monthRange(today.Year(), today.Month())
	case PeriodLastMonth:
		prev := today.AddDate(0, 0, -today.Day()) // last day of previous month
		return monthRange(prev.Year(), prev.Month())
	case PeriodThisYear:
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return boundedRange(start, today)
	case PeriodAll:
		return Range{}
	case PeriodCustom:
		start, err1 := time.Parse("2006-01-02", customStart)
		end, err2 := time.Parse("2006-01-02", customEnd)
		if err1 != nil || err2 != nil {
			return monthRange(today.Year(), today.Month())
		}
		return boundedRange(dateOnly(start), dateOnly(end))
	default:
		return monthRange(today.Year(), today.Month())
	}
}

// MonthRange returns the full calendar month range, for the archiver.
func MonthRange(year int, month time.Month) Range {
	return monthRange(year, month)
}

// PreviousMonth returns the year and month preceding now on the
// business clock.
func PreviousMonth(now time.Time) (int, time.Month) {
	today := dateOnly(now.UTC().Add(clockOffset))
	prev := today.AddDate(0, 0, -today.Day())
	return prev.Year(), prev.Month()
}

func monthRange(year int, month time.Month) Range {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return boundedRange(start, end)
}

func boundedRange(start, end time.Time) Range {
	return Range{Start: &start, End: &end}
}

// mondayOf returns the Monday of the week containing d.
func mondayOf(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
