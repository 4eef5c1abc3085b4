package reports

import (
	"slices"
	"strings"
	"time"

	"github.com/clinicshift/shift-scheduler/pkg/core/assignment"
	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
	"github.com/clinicshift/shift-scheduler/pkg/core/rules"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

// Shortfall describes one under-filled session on one day
type Shortfall struct {
	Capacity       int      `json:"capacity"`
	Usage          int      `json:"currentUsage"`
	Missing        int      `json:"missing"`
	RequiredSkills []string `json:"requiredSkills"`
}

// MissingReport maps a date key to its under-filled session keys
type MissingReport map[string]map[string]Shortfall

// MissingShifts checks every schedulable, open day in days against the rules active
// on it. Days without a shortfall are omitted; a fully staffed range yields an empty
// report. closed may be nil.
func MissingShifts(st *state.AppState, index *rules.Index, days []time.Time, month time.Time, closed func(time.Time) bool) MissingReport {
	report := MissingReport{}
	for _, day := range days {
		if !calendar.IsSchedulable(day) || (closed != nil && closed(day)) {
			continue
		}
		dateKey := calendar.FormatDate(day)
		dayReport := map[string]Shortfall{}
		for _, rule := range index.ActiveOn(day, month) {
			fullKey := rule.FullKey()
			usage := assignment.SessionCount(st.Schedule, dateKey, fullKey)
			missing := rule.Capacity - usage
			if missing <= 0 {
				continue
			}
			required := rule.RequiredSkills
			if required == nil {
				required = []string{}
			}
			dayReport[fullKey] = Shortfall{
				Capacity:       rule.Capacity,
				Usage:          usage,
				Missing:        missing,
				RequiredSkills: required,
			}
		}
		if len(dayReport) > 0 {
			report[dateKey] = dayReport
		}
	}
	return report
}

// Dates returns the report's dates in order
func (r MissingReport) Dates() []string {
	dates := make([]string, 0, len(r))
	for d := range r {
		dates = append(dates, d)
	}
	slices.Sort(dates)
	return dates
}

// TotalMissing sums the missing staff across the report
func (r MissingReport) TotalMissing() int {
	total := 0
	for _, day := range r {
		for _, s := range day {
			total += s.Missing
		}
	}
	return total
}

// SessionUsage is how often an employee worked one tracked session
type SessionUsage struct {
	Count int      `json:"count"`
	Dates []string `json:"dates"`
}

// EmployeeTracking is one employee's tracked session usage, keyed by full session key
type EmployeeTracking struct {
	Name     string                  `json:"name"`
	Sessions map[string]SessionUsage `json:"sessions"`
}

// TrackingReport maps an employee id to their tracked session usage
type TrackingReport map[int]EmployeeTracking

// Tracking counts, per employee, the cells in month holding each tracked rule's
// session. Employees and sessions without matches are omitted.
func Tracking(st *state.AppState, month time.Time) TrackingReport {
	prefix := calendar.MonthPrefix(month)
	report := TrackingReport{}

	for _, emp := range st.Employees {
		empReport := map[string]SessionUsage{}
		for _, rule := range st.Rules {
			if !rule.IsTracked {
				continue
			}
			fullKey := rule.FullKey()
			usage := SessionUsage{}
			for k, entry := range st.Schedule {
				if k.EmployeeID != emp.ID || !strings.HasPrefix(k.Date, prefix) {
					continue
				}
				if strings.HasPrefix(entry.Label, fullKey) {
					usage.Count++
					usage.Dates = append(usage.Dates, k.Date)
				}
			}
			if usage.Count > 0 {
				slices.Sort(usage.Dates)
				empReport[fullKey] = usage
			}
		}
		if len(empReport) > 0 {
			report[emp.ID] = EmployeeTracking{Name: emp.Name, Sessions: empReport}
		}
	}
	return report
}
