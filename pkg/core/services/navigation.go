package services

import (
	"time"

	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
)

func (w *Workspace) Month() time.Time {
	return w.month
}

// SetMonth switches the scheduling month and shows its first week
func (w *Workspace) SetMonth(month time.Time) {
	w.month = calendar.MonthStart(month)
	w.weekStart = calendar.WeekStart(w.month)
}

// ResetMonth selects the month after today
func (w *Workspace) ResetMonth() {
	w.SetMonth(calendar.NextMonth(w.now()))
}

func (w *Workspace) WeekStart() time.Time {
	return w.weekStart
}

// WeekOfMonth returns the displayed week's index within the scheduling month
func (w *Workspace) WeekOfMonth() int {
	return calendar.WeekOfMonth(w.weekStart, w.month)
}

// NextWeek advances the displayed week unless it would start after the month ends
func (w *Workspace) NextWeek() bool {
	next := w.weekStart.AddDate(0, 0, 7)
	monthEnd := w.month.AddDate(0, 1, -1)
	if next.After(monthEnd) {
		return false
	}
	w.weekStart = next
	return true
}

// PrevWeek moves the displayed week back unless it would end before the month starts
func (w *Workspace) PrevWeek() bool {
	prev := w.weekStart.AddDate(0, 0, -7)
	if prev.AddDate(0, 0, 6).Before(w.month) {
		return false
	}
	w.weekStart = prev
	return true
}

// WeekDays lists Monday to Saturday of the displayed week
func (w *Workspace) WeekDays() ([]time.Time, error) {
	return calendar.WeekDays(w.weekStart)
}
