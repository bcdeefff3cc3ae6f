package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePeriodDay(t *testing.T) {
	// 22:30 UTC is already the next day on the business clock (UTC+3).
	now := time.Date(2026, 8, 14, 22, 30, 0, 0, time.UTC)

	r := ResolvePeriod(PeriodDay, now, "", "")

	require.NotNil(t, r.Start)
	require.NotNil(t, r.End)
	assert.Equal(t, date(2026, 8, 15), *r.Start)
	assert.Equal(t, date(2026, 8, 15), *r.End)
}

func TestResolvePeriodWeekStartsMonday(t *testing.T) {
	// 2026-08-16 is a Sunday; its week started Monday the 10th.
	now := time.Date(2026, 8, 16, 12, 0, 0, 0, time.UTC)

	for _, token := range []string{PeriodWeek, PeriodThisWeek} {
		r := ResolvePeriod(token, now, "", "")

		require.NotNil(t, r.Start)
		require.NotNil(t, r.End)
		assert.Equal(t, date(2026, 8, 10), *r.Start, "token %s", token)
		assert.Equal(t, date(2026, 8, 16), *r.End, "token %s", token)
	}
}

func TestResolvePeriodMonth(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	r := ResolvePeriod(PeriodMonth, now, "", "")

	assert.Equal(t, date(2026, 2, 1), *r.Start)
	assert.Equal(t, date(2026, 2, 28), *r.End)
}

func TestResolvePeriodLastMonth(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	r := ResolvePeriod(PeriodLastMonth, now, "", "")

	assert.Equal(t, date(2025, 12, 1), *r.Start)
	assert.Equal(t, date(2025, 12, 31), *r.End)
}

func TestResolvePeriodThisYear(t *testing.T) {
	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)

	r := ResolvePeriod(PeriodThisYear, now, "", "")

	assert.Equal(t, date(2026, 1, 1), *r.Start)
	assert.Equal(t, date(2026, 8, 14), *r.End)
}

func TestResolvePeriodAllIsUnbounded(t *testing.T) {
	r := ResolvePeriod(PeriodAll, time.Now(), "", "")

	assert.Nil(t, r.Start)
	assert.Nil(t, r.End)
	assert.True(t, r.Unbounded())
}

func TestResolvePeriodCustom(t *testing.T) {
	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)

	r := ResolvePeriod(PeriodCustom, now, "2026-03-01", "2026-03-15")

	assert.Equal(t, date(2026, 3, 1), *r.Start)
	assert.Equal(t, date(2026, 3, 15), *r.End)
}

func TestResolvePeriodCustomMalformedFallsBackToMonth(t *testing.T) {
	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)

	for _, tc := range [][2]string{
		{"", ""},
		{"2026-03-01", ""},
		{"not-a-date", "2026-03-15"},
	} {
		r := ResolvePeriod(PeriodCustom, now, tc[0], tc[1])

		assert.Equal(t, date(2026, 8, 1), *r.Start)
		assert.Equal(t, date(2026, 8, 31), *r.End)
	}
}

func TestResolvePeriodUnknownTokenDefaultsToMonth(t *testing.T) {
	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)

	r := ResolvePeriod("fortnight", now, "", "")

	assert.Equal(t, date(2026, 8, 1), *r.Start)
	assert.Equal(t, date(2026, 8, 31), *r.End)
}

func TestRangeContains(t *testing.T) {
	r := MonthRange(2026, time.March)

	assert.True(t, r.Contains(date(2026, 3, 1)))
	assert.True(t, r.Contains(date(2026, 3, 31)))
	assert.False(t, r.Contains(date(2026, 2, 28)))
	assert.False(t, r.Contains(date(2026, 4, 1)))

	all := Range{}
	assert.True(t, all.Contains(date(1999, 1, 1)))
}

func TestPreviousMonthAcrossYearBoundary(t *testing.T) {
	year, month := PreviousMonth(time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC))

	assert.Equal(t, 2025, year)
	assert.Equal(t, time.December, month)
}
