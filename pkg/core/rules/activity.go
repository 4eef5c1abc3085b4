package rules

import (
	"slices"
	"time"

	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
	"github.com/clinicshift/shift-scheduler/pkg/core/model"
)

// IsRuleActiveOn reports whether rule runs on date. The weekday must be in Days and
// the week of the scheduling month in WeekFrequency; an empty set does not restrict.
// Sundays are never active.
func IsRuleActiveOn(rule model.ShiftRule, date, schedulingMonth time.Time) bool {
	if !calendar.IsSchedulable(date) {
		return false
	}
	if len(rule.Days) > 0 && !slices.Contains(rule.Days, calendar.Weekday(date)) {
		return false
	}
	if len(rule.WeekFrequency) > 0 && !slices.Contains(rule.WeekFrequency, calendar.WeekOfMonth(date, schedulingMonth)) {
		return false
	}
	return true
}

// ActiveOn returns the rules running on date, in index order
func (idx *Index) ActiveOn(date, schedulingMonth time.Time) []model.ShiftRule {
	var active []model.ShiftRule
	for _, rule := range idx.rules {
		if IsRuleActiveOn(rule, date, schedulingMonth) {
			active = append(active, rule)
		}
	}
	return active
}
