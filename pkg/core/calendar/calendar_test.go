package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	// 2025-03-05 is a Wednesday
	assert.Equal(t, date(2025, 3, 3), WeekStart(date(2025, 3, 5)))
	assert.Equal(t, date(2025, 3, 3), WeekStart(date(2025, 3, 3)))
	// Sunday belongs to the week started the previous Monday
	assert.Equal(t, date(2025, 3, 3), WeekStart(date(2025, 3, 9)))
}

func TestWeekOfMonth(t *testing.T) {
	march := date(2025, 3, 1) // starts on a Saturday

	tests := []struct {
		name     string
		date     time.Time
		expected int
	}{
		{"first day of month shares week 1 with late February", date(2025, 3, 1), 1},
		{"Monday before the 1st is week 1", date(2025, 2, 24), 1},
		{"first full week is week 2", date(2025, 3, 3), 2},
		{"Saturday stays in its Monday week", date(2025, 3, 8), 2},
		{"last Monday spills into week 6", date(2025, 3, 31), 6},
		{"Sunday before the first week is week 0", date(2025, 2, 23), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeekOfMonth(tt.date, march))
		})
	}
}

func TestWeekOfMonth_MonthStartingMonday(t *testing.T) {
	september := date(2025, 9, 1)

	assert.Equal(t, 1, WeekOfMonth(date(2025, 9, 1), september))
	assert.Equal(t, 1, WeekOfMonth(date(2025, 9, 6), september))
	assert.Equal(t, 5, WeekOfMonth(date(2025, 9, 29), september))
	assert.Equal(t, 5, WeekOfMonth(date(2025, 9, 30), september))
}

func TestWeekOfMonth_RelativeToSchedulingMonth(t *testing.T) {
	// The same date counts differently depending on which month is being scheduled
	d := date(2025, 3, 31)
	assert.Equal(t, 6, WeekOfMonth(d, date(2025, 3, 1)))
	assert.Equal(t, 1, WeekOfMonth(d, date(2025, 4, 1)))
}

func TestWeekday(t *testing.T) {
	assert.Equal(t, 1, Weekday(date(2025, 3, 3)))
	assert.Equal(t, 6, Weekday(date(2025, 3, 8)))
	assert.Equal(t, 0, Weekday(date(2025, 3, 9)))
	assert.False(t, IsSchedulable(date(2025, 3, 9)))
	assert.True(t, IsSchedulable(date(2025, 3, 8)))
}

func TestMonthDays_SkipsSundays(t *testing.T) {
	days, err := MonthDays(date(2025, 3, 17))
	require.NoError(t, err)

	assert.Len(t, days, 26)
	assert.Equal(t, date(2025, 3, 1), days[0])
	assert.Equal(t, date(2025, 3, 31), days[len(days)-1])
	for _, d := range days {
		assert.NotEqual(t, time.Sunday, d.Weekday(), "unexpected Sunday %s", FormatDate(d))
	}
}

func TestWeekDays(t *testing.T) {
	days, err := WeekDays(date(2025, 3, 5))
	require.NoError(t, err)

	require.Len(t, days, 6)
	assert.Equal(t, date(2025, 3, 3), days[0])
	assert.Equal(t, date(2025, 3, 8), days[5])
}

func TestMonthWeeks(t *testing.T) {
	weeks := MonthWeeks(date(2025, 3, 10))

	require.Len(t, weeks, 6)
	assert.Equal(t, date(2025, 2, 24), weeks[0])
	assert.Equal(t, date(2025, 3, 31), weeks[5])
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 3), d)

	_, err = ParseDate("2025-13-40")
	assert.Error(t, err)
}

func TestNextMonth(t *testing.T) {
	assert.Equal(t, date(2026, 1, 1), NextMonth(date(2025, 12, 15)))
	assert.Equal(t, "2025-12", MonthPrefix(date(2025, 12, 15)))
}

func TestClosures(t *testing.T) {
	closures, err := ParseClosures([]string{
		"FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=1",
		"FREQ=YEARLY;BYMONTH=2;BYDAY=1MO",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, closures.Len())

	assert.True(t, closures.IsClosed(date(2026, 1, 1)), "New Year's Day should be closed")
	assert.False(t, closures.IsClosed(date(2026, 1, 2)))
	// First Monday of February 2026 is the 2nd
	assert.True(t, closures.IsClosed(date(2026, 2, 2)))
	assert.False(t, closures.IsClosed(date(2026, 2, 9)))
}

func TestClosures_Invalid(t *testing.T) {
	_, err := ParseClosures([]string{"FREQ=NEVER"})
	assert.Error(t, err)
}

func TestClosures_NilNeverCloses(t *testing.T) {
	var closures *Closures
	assert.False(t, closures.IsClosed(date(2026, 1, 1)))
	assert.Equal(t, 0, closures.Len())
}
