package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// DateLayout is the layout of date keys used throughout the schedule
const DateLayout = "2006-01-02"

// MonthLayout is the year-month prefix shared by every date key of a month
const MonthLayout = "2006-01"

// DateOnly truncates t to midnight UTC of its calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return t, nil
}

// MonthStart returns the first day of the month containing t
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// MonthPrefix returns the "YYYY-MM" prefix of date keys in the month of t
func MonthPrefix(t time.Time) string {
	return t.Format(MonthLayout)
}

// WeekStart returns the Monday of the Monday-start week containing t
func WeekStart(t time.Time) time.Time {
	day := DateOnly(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Weekday numbers days Monday=1 to Saturday=6, Sunday=0
func Weekday(t time.Time) int {
	return int(t.Weekday())
}

// IsSchedulable reports whether t falls Monday through Saturday
func IsSchedulable(t time.Time) bool {
	return t.Weekday() != time.Sunday
}

// WeekOfMonth returns the 1-based index of the Monday-start week containing date,
// counted from the week that contains the first day of the scheduling month.
// Dates before that week yield values below 1.
func WeekOfMonth(date, month time.Time) int {
	first := WeekStart(MonthStart(month))
	days := int(DateOnly(date).Sub(first).Hours() / 24)
	week := days / 7
	if days < 0 && days%7 != 0 {
		week--
	}
	return week + 1
}

var schedulableWeekdays = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// SchedulableDays lists every Monday-to-Saturday date in [start, end]
func SchedulableDays(start, end time.Time) ([]time.Time, error) {
	start, end = DateOnly(start), DateOnly(end)
	if end.Before(start) {
		return nil, nil
	}
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   start,
		Until:     end,
		Byweekday: schedulableWeekdays,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build schedulable day rule: %w", err)
	}
	return rule.All(), nil
}

// MonthDays lists the schedulable days of the month containing t
func MonthDays(t time.Time) ([]time.Time, error) {
	start := MonthStart(t)
	return SchedulableDays(start, start.AddDate(0, 1, -1))
}

// WeekDays lists Monday to Saturday of the week starting at weekStart
func WeekDays(weekStart time.Time) ([]time.Time, error) {
	start := WeekStart(weekStart)
	return SchedulableDays(start, start.AddDate(0, 0, 5))
}

// MonthWeeks returns the Monday of every week overlapping the month containing t
func MonthWeeks(t time.Time) []time.Time {
	start := MonthStart(t)
	last := start.AddDate(0, 1, -1)
	var weeks []time.Time
	for w := WeekStart(start); !w.After(last); w = w.AddDate(0, 0, 7) {
		weeks = append(weeks, w)
	}
	return weeks
}

// NextMonth returns the first day of the month after t
func NextMonth(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0)
}
