package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/rules"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

var march = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func date(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func rule71() model.ShiftRule {
	return model.ShiftRule{
		ID: 1, SessionID: "71", ShiftType: model.Morning, TimeSlot: "8-12",
		Days: []int{1, 2, 3, 4, 5}, WeekFrequency: []int{1, 2, 3, 4, 5}, Capacity: 1,
	}
}

func stateWith(ruleList []model.ShiftRule, entries map[schedule.Key]string) *state.AppState {
	sc := schedule.Schedule{}
	for k, label := range entries {
		sc[k] = schedule.Entry{Label: label}
	}
	return &state.AppState{
		Employees: []model.Employee{{ID: 1, Name: "王小明"}, {ID: 2, Name: "李大華"}},
		Schedule:  sc,
		Rules:     ruleList,
	}
}

func TestMissingShifts_OverfilledRuleIsOmitted(t *testing.T) {
	ruleList := []model.ShiftRule{rule71()}
	st := stateWith(ruleList, map[schedule.Key]string{
		{Date: "2025-03-03", EmployeeID: 1, Shift: model.Morning}: "MORNING / 8-12 / 71",
		{Date: "2025-03-03", EmployeeID: 2, Shift: model.Morning}: "MORNING / 8-12 / 71",
	})

	report := MissingShifts(st, rules.NewIndex(ruleList), []time.Time{date(3)}, march, nil)

	require.NotNil(t, report)
	assert.Empty(t, report)
}

func TestMissingShifts_ReportsShortfalls(t *testing.T) {
	ruleList := []model.ShiftRule{
		rule71(),
		{ID: 2, SessionID: "82診", ShiftType: model.Morning, TimeSlot: "8-12", Days: []int{1}, WeekFrequency: []int{2}, Capacity: 2, RequiredSkills: []string{"石膏"}},
	}
	st := stateWith(ruleList, map[schedule.Key]string{
		{Date: "2025-03-03", EmployeeID: 1, Shift: model.Morning}: "MORNING / 8-12 / 82診",
	})
	days, err := calendar.WeekDays(date(3))
	require.NoError(t, err)

	report := MissingShifts(st, rules.NewIndex(ruleList), days, march, nil)

	// 71 is missing Mon-Fri; Saturday has no active rule
	assert.Len(t, report, 5)
	assert.NotContains(t, report, "2025-03-08")

	monday := report["2025-03-03"]
	require.Len(t, monday, 2)
	assert.Equal(t, Shortfall{Capacity: 2, Usage: 1, Missing: 1, RequiredSkills: []string{"石膏"}}, monday["MORNING / 8-12 / 82診"])
	assert.Equal(t, Shortfall{Capacity: 1, Usage: 0, Missing: 1, RequiredSkills: []string{}}, monday["MORNING / 8-12 / 71"])

	assert.Equal(t, 6, report.TotalMissing())
	assert.Equal(t, "2025-03-03", report.Dates()[0])
}

func TestMissingShifts_SkipsSundaysAndClosures(t *testing.T) {
	ruleList := []model.ShiftRule{{SessionID: "門診", ShiftType: model.Morning, TimeSlot: "9-1", Capacity: 1}}
	st := stateWith(ruleList, nil)
	closed := func(d time.Time) bool { return calendar.FormatDate(d) == "2025-03-04" }

	report := MissingShifts(st, rules.NewIndex(ruleList), []time.Time{date(3), date(4), date(9)}, march, closed)

	assert.Equal(t, []string{"2025-03-03"}, report.Dates())
}

func TestTracking(t *testing.T) {
	tracked := model.ShiftRule{ID: 8, SessionID: "82診", ShiftType: model.Morning, TimeSlot: "8-12", IsTracked: true}
	ruleList := []model.ShiftRule{rule71(), tracked}
	st := stateWith(ruleList, map[schedule.Key]string{
		{Date: "2025-03-10", EmployeeID: 1, Shift: model.Morning}: "MORNING / 8-12 / 82診",
		{Date: "2025-03-03", EmployeeID: 1, Shift: model.Morning}: "MORNING / 8-12 / 82診",
		{Date: "2025-04-01", EmployeeID: 1, Shift: model.Morning}: "MORNING / 8-12 / 82診",
		{Date: "2025-03-03", EmployeeID: 2, Shift: model.Morning}: "MORNING / 8-12 / 71",
	})

	report := Tracking(st, march)

	require.Len(t, report, 1)
	assert.Equal(t, "王小明", report[1].Name)
	assert.Equal(t, SessionUsage{Count: 2, Dates: []string{"2025-03-03", "2025-03-10"}}, report[1].Sessions["MORNING / 8-12 / 82診"])
}

func TestTracking_SameNameEmployeesStaySeparate(t *testing.T) {
	tracked := model.ShiftRule{ID: 8, SessionID: "82診", ShiftType: model.Morning, TimeSlot: "8-12", IsTracked: true}
	st := stateWith([]model.ShiftRule{tracked}, map[schedule.Key]string{
		{Date: "2025-03-03", EmployeeID: 1, Shift: model.Morning}: "MORNING / 8-12 / 82診",
		{Date: "2025-03-04", EmployeeID: 3, Shift: model.Morning}: "MORNING / 8-12 / 82診",
		{Date: "2025-03-05", EmployeeID: 3, Shift: model.Morning}: "MORNING / 8-12 / 82診",
	})
	st.Employees = append(st.Employees, model.Employee{ID: 3, Name: "王小明"})

	report := Tracking(st, march)

	require.Len(t, report, 2)
	assert.Equal(t, 1, report[1].Sessions["MORNING / 8-12 / 82診"].Count)
	assert.Equal(t, 2, report[3].Sessions["MORNING / 8-12 / 82診"].Count)
	assert.Equal(t, report[1].Name, report[3].Name)
}

func TestTracking_NoMatchesIsEmptyNotNil(t *testing.T) {
	st := stateWith(state.DefaultRules(), map[schedule.Key]string{
		{Date: "2025-03-03", EmployeeID: 1, Shift: model.Morning}: "MORNING / 8-12 / 71診",
	})

	report := Tracking(st, march)

	require.NotNil(t, report)
	assert.Empty(t, report)
}
