package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/rules"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

const (
	monday   = "2025-03-03"
	tuesday  = "2025-03-04"
	saturday = "2025-03-08"
	label71  = "MORNING / 8-12 / 71"
)

var march = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func testRules() []model.ShiftRule {
	return []model.ShiftRule{
		{ID: 1, SessionID: "71", ShiftType: model.Morning, TimeSlot: "8-12", Capacity: 1, Days: []int{1, 2, 3, 4, 5}, WeekFrequency: []int{1, 2, 3, 4, 5}},
		{ID: 2, SessionID: "82診", ShiftType: model.Morning, TimeSlot: "8-12", Capacity: 2, Days: []int{1, 2, 3, 4, 5, 6}, WeekFrequency: []int{1, 2, 3, 4, 5}, RequiredSkills: []string{"石膏"}, IsTracked: true},
		{ID: 3, SessionID: "83診", ShiftType: model.Morning, TimeSlot: "8-12", Capacity: 1, Days: []int{1}, WeekFrequency: []int{1}},
		{ID: 4, SessionID: "105診", ShiftType: model.Night, TimeSlot: "6-9", Capacity: 1, Days: []int{6}, WeekFrequency: []int{1, 2, 3, 4, 5}},
	}
}

func testState() *state.AppState {
	return &state.AppState{
		Employees: []model.Employee{
			{ID: 1, Name: "王小明", Skills: []string{"石膏"}, MainSessionID: "71"},
			{ID: 2, Name: "李大華", Skills: []string{}},
			{ID: 3, Name: "陳雅婷", MainSessionID: "999"},
		},
		Schedule: schedule.Schedule{},
		Rules:    testRules(),
	}
}

func testEngine() *Engine {
	return NewEngine(rules.NewIndex(testRules()), march)
}

func key(date string, emp int, shift model.ShiftType) schedule.Key {
	return schedule.Key{Date: date, EmployeeID: emp, Shift: shift}
}

func TestSetEntry_OffConfirmedCoversWholeDay(t *testing.T) {
	e := testEngine()
	st := testState()

	next := e.SetEntry(st, key(monday, 1, model.Afternoon), model.LabelOffConfirmed, "")

	for _, shift := range model.AllShiftTypes {
		assert.True(t, next.Schedule[key(monday, 1, shift)].IsOff(), "shift %s", shift)
	}
	assert.Empty(t, st.Schedule, "input state must not change")
}

func TestSetEntry_SessionClearsSiblingOff(t *testing.T) {
	e := testEngine()
	st := e.SetEntry(testState(), key(monday, 1, model.Morning), model.LabelOff, "sick")

	next := e.SetEntry(st, key(monday, 1, model.Morning), label71, "covering")

	require.Len(t, next.Schedule, 1)
	assert.Equal(t, schedule.Entry{Label: label71, Memo: "covering"}, next.Schedule[key(monday, 1, model.Morning)])
}

func TestSetEntry_SameValueIsNoop(t *testing.T) {
	e := testEngine()
	st := e.SetEntry(testState(), key(monday, 1, model.Morning), label71, "")

	assert.Same(t, st, e.SetEntry(st, key(monday, 1, model.Morning), label71, ""))
}

func TestClearEntry(t *testing.T) {
	e := testEngine()

	t.Run("absent cell returns same state", func(t *testing.T) {
		st := testState()
		assert.Same(t, st, e.ClearEntry(st, key(monday, 1, model.Morning)))
	})

	t.Run("off clears the whole day", func(t *testing.T) {
		st := e.SetEntry(testState(), key(monday, 1, model.Morning), model.LabelOff, "")
		st = e.SetEntry(st, key(monday, 2, model.Morning), label71, "")

		next := e.ClearEntry(st, key(monday, 1, model.Night))

		assert.Len(t, next.Schedule, 1)
		assert.Contains(t, next.Schedule, key(monday, 2, model.Morning))
	})

	t.Run("session clears one cell", func(t *testing.T) {
		st := e.SetEntry(testState(), key(monday, 1, model.Morning), label71, "")
		st = e.SetEntry(st, key(monday, 1, model.Night), "NIGHT / 6-9 / 105診", "")

		next := e.Erase(st, key(monday, 1, model.Morning))

		assert.Len(t, next.Schedule, 1)
		assert.Contains(t, next.Schedule, key(monday, 1, model.Night))
	})
}

func TestPaint(t *testing.T) {
	e := testEngine()

	t.Run("writes main session label", func(t *testing.T) {
		st := e.SetEntry(testState(), key(monday, 1, model.Night), model.LabelOff, "")

		next, outcome := e.Paint(st, key(monday, 1, model.Morning))

		assert.Equal(t, Painted, outcome)
		require.Len(t, next.Schedule, 1, "sibling OFF states are cleared")
		assert.Equal(t, label71, next.Schedule[key(monday, 1, model.Morning)].Label)
	})

	t.Run("uses raw main session id in the label", func(t *testing.T) {
		st := testState()
		st.Employees[0].MainSessionID = "82診"

		next, outcome := e.Paint(st, key(monday, 1, model.Morning))

		assert.Equal(t, Painted, outcome)
		assert.Equal(t, "MORNING / 8-12 / 82診", next.Schedule[key(monday, 1, model.Morning)].Label)
	})

	tests := []struct {
		name string
		cell schedule.Key
	}{
		{"no rule under this shift type", key(monday, 1, model.Night)},
		{"no main session", key(monday, 2, model.Morning)},
		{"main session without a rule", key(monday, 3, model.Morning)},
		{"unknown employee", key(monday, 42, model.Morning)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := testState()
			next, outcome := e.Paint(st, tt.cell)
			assert.Equal(t, NeedsSelection, outcome)
			assert.Same(t, st, next)
		})
	}
}

func TestSessionCount(t *testing.T) {
	e := testEngine()
	st := e.SetEntry(testState(), key(monday, 1, model.Morning), label71, "")
	st = e.SetEntry(st, key(monday, 2, model.Morning), label71, "")
	st = e.SetEntry(st, key(monday, 3, model.Morning), label71+"診", "")
	st = e.SetEntry(st, key(tuesday, 3, model.Morning), label71, "")

	assert.Equal(t, 3, e.SessionCount(st, monday, label71))
	assert.Equal(t, 1, SessionCount(st.Schedule, tuesday, label71))
	assert.Equal(t, 0, SessionCount(st.Schedule, saturday, label71))
}

func TestMove_IntoEmptyCell(t *testing.T) {
	e := testEngine()
	st := e.SetEntry(testState(), key(monday, 1, model.Morning), label71, "")

	next, result, err := e.Move(st, key(monday, 1, model.Morning), key(tuesday, 2, model.Morning))

	require.NoError(t, err)
	assert.Equal(t, Moved, result.Kind)
	assert.Contains(t, result.Label, "Move shift")
	assert.NotContains(t, next.Schedule, key(monday, 1, model.Morning))
	assert.Equal(t, label71, next.Schedule[key(tuesday, 2, model.Morning)].Label)
}

func TestMove_SwapsOccupiedCell(t *testing.T) {
	e := testEngine()
	st := e.SetEntry(testState(), key(monday, 1, model.Morning), label71, "")
	st = e.SetEntry(st, key(tuesday, 2, model.Morning), "MORNING / 8-12 / 82診", "memo")

	next, result, err := e.Move(st, key(monday, 1, model.Morning), key(tuesday, 2, model.Morning))

	require.NoError(t, err)
	assert.Equal(t, Swapped, result.Kind)
	assert.Contains(t, result.Label, "Swap shifts")
	assert.Equal(t, schedule.Entry{Label: "MORNING / 8-12 / 82診", Memo: "memo"}, next.Schedule[key(monday, 1, model.Morning)])
	assert.Equal(t, label71, next.Schedule[key(tuesday, 2, model.Morning)].Label)
}

func TestMove_RuleViolationLeavesStateUnchanged(t *testing.T) {
	e := testEngine()
	st := e.SetEntry(testState(), key(tuesday, 1, model.Morning), label71, "")

	next, _, err := e.Move(st, key(tuesday, 1, model.Morning), key(saturday, 2, model.Morning))

	require.Error(t, err)
	var rejection *Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, RuleViolation, rejection.Reason)
	assert.Equal(t, model.SessionID("71"), rejection.Session)
	assert.Same(t, st, next)
	assert.Equal(t, label71, st.Schedule[key(tuesday, 1, model.Morning)].Label)
}

func TestMove_SwapChecksDestinationValueAgainstSourceDate(t *testing.T) {
	e := testEngine()
	// 83診 only runs on Monday of week 1; March 3 is week 2
	st := e.SetEntry(testState(), key(tuesday, 1, model.Morning), label71, "")
	st = e.SetEntry(st, key(monday, 2, model.Morning), "MORNING / 8-12 / 82診", "")
	st = e.SetEntry(st, key("2025-02-24", 2, model.Morning), "MORNING / 8-12 / 83診", "")

	_, _, err := e.Move(st, key(tuesday, 1, model.Morning), key("2025-02-24", 2, model.Morning))

	var rejection *Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, model.SessionID("83診"), rejection.Session)
	assert.Equal(t, tuesday, rejection.Date)
}

func TestMove_RulelessSessionIsNotBlocked(t *testing.T) {
	e := testEngine()
	st := e.SetEntry(testState(), key(monday, 1, model.Morning), "MORNING / 8-12 / 999診", "")

	next, _, err := e.Move(st, key(monday, 1, model.Morning), key("2025-03-09", 1, model.Morning))

	require.NoError(t, err)
	assert.Contains(t, next.Schedule, key("2025-03-09", 1, model.Morning))
}

func TestMove_Rejections(t *testing.T) {
	e := testEngine()
	st := e.SetEntry(testState(), key(monday, 1, model.Morning), label71, "")

	tests := []struct {
		name   string
		from   schedule.Key
		to     schedule.Key
		reason Reason
	}{
		{"different shift types", key(monday, 1, model.Morning), key(monday, 2, model.Night), ShiftTypeMismatch},
		{"same cell", key(monday, 1, model.Morning), key(monday, 1, model.Morning), SameCell},
		{"empty source", key(monday, 2, model.Morning), key(monday, 1, model.Morning), EmptySource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _, err := e.Move(st, tt.from, tt.to)
			var rejection *Rejection
			require.ErrorAs(t, err, &rejection)
			assert.Equal(t, tt.reason, rejection.Reason)
			assert.True(t, IsRejection(err))
			assert.NotEmpty(t, err.Error())
			assert.Same(t, st, next)
		})
	}
}

func TestMove_OffCarriesWholeDay(t *testing.T) {
	e := testEngine()
	st := e.SetEntry(testState(), key(monday, 1, model.Morning), model.LabelOff, "leave")
	st = e.SetEntry(st, key(monday, 2, model.Afternoon), "AFTERNOON / 1-5 / 9", "")

	next, result, err := e.Move(st, key(monday, 1, model.Morning), key(monday, 2, model.Morning))

	require.NoError(t, err)
	assert.Equal(t, Moved, result.Kind)
	for _, shift := range model.AllShiftTypes {
		assert.NotContains(t, next.Schedule, key(monday, 1, shift), "source day is cleared: %s", shift)
		entry := next.Schedule[key(monday, 2, shift)]
		assert.Equal(t, model.LabelOff, entry.Label, "destination day is off: %s", shift)
		assert.Equal(t, "leave", entry.Memo)
	}
}

func TestMove_SwapOffWithSessionKeepsDaysConsistent(t *testing.T) {
	e := testEngine()
	st := e.SetEntry(testState(), key(monday, 1, model.Night), model.LabelOffConfirmed, "")
	st = e.SetEntry(st, key(tuesday, 2, model.Night), "NIGHT / 5-9 / 9", "")
	st = e.SetEntry(st, key(tuesday, 2, model.Morning), label71, "")

	next, result, err := e.Move(st, key(monday, 1, model.Night), key(tuesday, 2, model.Night))

	require.NoError(t, err)
	assert.Equal(t, Swapped, result.Kind)
	assert.Equal(t, schedule.Schedule{
		key(monday, 1, model.Night):      {Label: "NIGHT / 5-9 / 9"},
		key(tuesday, 2, model.Morning):   {Label: model.LabelOffConfirmed},
		key(tuesday, 2, model.Afternoon): {Label: model.LabelOffConfirmed},
		key(tuesday, 2, model.Night):     {Label: model.LabelOffConfirmed},
	}, next.Schedule)

	for k, entry := range next.Schedule {
		for _, shift := range model.AllShiftTypes {
			if sibling, ok := next.Schedule[k.WithShift(shift)]; ok {
				assert.Equal(t, entry.IsOff(), sibling.IsOff(), "%s #%d mixes OFF and sessions", k.Date, k.EmployeeID)
			}
		}
	}
}
