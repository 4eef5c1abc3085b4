package assignment

import (
	"slices"
	"strings"

	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/rules"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

// SessionOption is one session offered for a cell
type SessionOption struct {
	SessionID      model.SessionID
	FullKey        string
	Capacity       int
	Usage          int
	RequiredSkills []string
	MeetsSkills    bool
	IsFull         bool
	// Current is set when the cell already holds this session
	Current bool
	// Difficult sessions require skills
	Difficult bool
}

// Selectable reports whether the option may be chosen for the cell
func (o SessionOption) Selectable() bool {
	return o.MeetsSkills && (!o.IsFull || o.Current)
}

// Candidates lists the sessions under (k.Shift, timeSlot) that run on k's date, with
// their current fill and whether the employee qualifies.
func (e *Engine) Candidates(st *state.AppState, k schedule.Key, timeSlot string) ([]SessionOption, error) {
	date, err := calendar.ParseDate(k.Date)
	if err != nil {
		return nil, err
	}

	// Unknown employees have no skills
	emp, _ := st.Employee(k.EmployeeID)
	current := st.Schedule[k].Label

	var options []SessionOption
	for _, session := range e.Index.Sessions(k.Shift, timeSlot) {
		rule, ok := e.Index.Lookup(k.Shift, timeSlot, session)
		if !ok || !rules.IsRuleActiveOn(rule, date, e.Month) {
			continue
		}

		fullKey := model.FullShiftKey(k.Shift, timeSlot, session)
		capacity := max(rule.Capacity, 1)
		usage := SessionCount(st.Schedule, k.Date, fullKey)
		required := rule.RequiredSkills
		if required == nil {
			required = []string{}
		}

		options = append(options, SessionOption{
			SessionID:      session,
			FullKey:        fullKey,
			Capacity:       capacity,
			Usage:          usage,
			RequiredSkills: required,
			MeetsSkills:    emp.HasSkills(required),
			IsFull:         usage >= capacity,
			Current:        current != "" && strings.HasPrefix(current, fullKey),
			Difficult:      len(required) > 0,
		})
	}
	return options, nil
}

// TrackedUsage is an employee's running count on a tracked session
type TrackedUsage struct {
	Tracked bool
	Count   int
	Dates   []string
}

// TrackedCount counts every non-OFF cell of the employee holding the session, when
// the matching rule is tracked.
func (e *Engine) TrackedCount(st *state.AppState, employeeID int, shift model.ShiftType, timeSlot string, session model.SessionID) TrackedUsage {
	rule, ok := e.Index.Lookup(shift, timeSlot, session)
	if !ok || !rule.IsTracked {
		return TrackedUsage{}
	}

	fullKey := model.FullShiftKey(shift, timeSlot, session)
	usage := TrackedUsage{Tracked: true, Dates: []string{}}
	for k, entry := range st.Schedule {
		if k.EmployeeID != employeeID || entry.IsOff() {
			continue
		}
		if strings.HasPrefix(entry.Label, fullKey) {
			usage.Count++
			usage.Dates = append(usage.Dates, k.Date)
		}
	}
	slices.Sort(usage.Dates)
	return usage
}
