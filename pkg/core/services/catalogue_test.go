package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

func TestSaveSkills(t *testing.T) {
	w := openWorkspace(t, newMockStore())

	require.True(t, w.SaveSkills([]string{" 超音波", "拆線", "", "拆線", "縫合"}))
	assert.Equal(t, []string{"超音波", "拆線", "縫合"}, w.State().Skills)

	assert.False(t, w.SaveSkills([]string{"超音波", "拆線", "縫合"}), "unchanged list")
}

func TestSkillUsage(t *testing.T) {
	w := openWorkspace(t, newMockStore())

	usage := w.SkillUsage("石膏")
	assert.Equal(t, []string{"王小明", "李大華"}, usage.Employees)
	assert.Equal(t, []model.SessionID{"82診"}, usage.Rules)
	assert.True(t, usage.InUse())

	assert.False(t, w.SkillUsage("其他").InUse())
}

func TestDeleteSkill(t *testing.T) {
	w := openWorkspace(t, newMockStore())

	assert.Error(t, w.DeleteSkill("石膏"))
	require.NoError(t, w.DeleteSkill("其他"))
	assert.NotContains(t, w.State().Skills, "其他")
}

func TestForceDeleteSkill_OneStep(t *testing.T) {
	w := openWorkspace(t, newMockStore())

	require.True(t, w.ForceDeleteSkill("石膏"))

	st := w.State()
	assert.NotContains(t, st.Skills, "石膏")
	for _, e := range st.Employees {
		assert.NotContains(t, e.Skills, "石膏", e.Name)
	}
	for _, r := range st.Rules {
		assert.NotContains(t, r.RequiredSkills, "石膏", r.SessionID)
	}
	assert.Equal(t, `Force delete skill "石膏"`, w.LastAction())

	_, ok := w.Undo()
	require.True(t, ok)
	assert.Equal(t, state.Default(), w.State())
}

func TestValidateRule(t *testing.T) {
	valid := model.ShiftRule{SessionID: "71診", Capacity: 1, ShiftType: model.Morning, TimeSlot: "8-12", Days: []int{1}, WeekFrequency: []int{1}}

	tests := []struct {
		name   string
		modify func(*model.ShiftRule)
	}{
		{"missing session", func(r *model.ShiftRule) { r.SessionID = "" }},
		{"capacity too high", func(r *model.ShiftRule) { r.Capacity = 6 }},
		{"unknown shift type", func(r *model.ShiftRule) { r.ShiftType = "EVENING" }},
		{"missing slot", func(r *model.ShiftRule) { r.TimeSlot = "" }},
		{"no days", func(r *model.ShiftRule) { r.Days = nil }},
		{"sunday", func(r *model.ShiftRule) { r.Days = []int{0} }},
		{"no weeks", func(r *model.ShiftRule) { r.WeekFrequency = []int{} }},
		{"week six", func(r *model.ShiftRule) { r.WeekFrequency = []int{6} }},
	}

	require.NoError(t, ValidateRule(valid))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := valid
			rule.Days = []int{1}
			rule.WeekFrequency = []int{1}
			tt.modify(&rule)
			assert.ErrorIs(t, ValidateRule(rule), ErrInvalidRule)
		})
	}
}

func TestAddRule(t *testing.T) {
	w := openWorkspace(t, newMockStore())

	rule, err := w.AddRule(model.ShiftRule{
		SessionID:     "120",
		Capacity:      9,
		ShiftType:     model.Night,
		TimeSlot:      " 6-9 ",
		Days:          []int{3, 1, 3},
		WeekFrequency: []int{2},
	})
	require.NoError(t, err)

	assert.Equal(t, 401, rule.ID)
	assert.Equal(t, model.SessionID("120診"), rule.SessionID)
	assert.Equal(t, 5, rule.Capacity)
	assert.Equal(t, "6-9", rule.TimeSlot)
	assert.Equal(t, []int{1, 3}, rule.Days)
	assert.NotNil(t, rule.RequiredSkills)

	assert.Equal(t, []string{"6-9"}, w.Index().TimeSlots(model.Night))
}

func TestAddRule_Invalid(t *testing.T) {
	w := openWorkspace(t, newMockStore())

	_, err := w.AddRule(model.ShiftRule{SessionID: "120", ShiftType: model.Night, TimeSlot: "6-9", WeekFrequency: []int{1}})
	assert.ErrorIs(t, err, ErrInvalidRule)
	assert.False(t, w.CanUndo())
}

func TestSaveRules_RejectsWholeListOnError(t *testing.T) {
	w := openWorkspace(t, newMockStore())
	list := state.DefaultRules()
	list[0].Days = nil

	assert.ErrorIs(t, w.SaveRules(list), ErrInvalidRule)
	assert.Equal(t, state.DefaultRules(), w.State().Rules)
}

func TestDeleteRule(t *testing.T) {
	w := openWorkspace(t, newMockStore())

	require.True(t, w.DeleteRule(7))
	_, ok := w.Index().BySession("83")
	assert.False(t, ok)

	assert.False(t, w.DeleteRule(7))
}

func TestTimeSlotUsage(t *testing.T) {
	w := openWorkspace(t, newMockStore())
	require.True(t, w.SetEntry(cell("2025-03-04", 1, model.Morning), "MORNING / 8-12 / 82診", ""))
	require.True(t, w.SetEntry(cell("2025-03-04", 2, model.Morning), "MORNING / 8-12 / 102診", ""))
	require.True(t, w.SetEntry(cell("2025-03-03", 2, model.Morning), "MORNING / 8-12 / 102診", ""))
	require.True(t, w.SetEntry(cell("2025-03-05", 2, model.Morning), "MORNING / 9-1 / 門診", ""))

	usage := w.TimeSlotUsage(model.Morning, "8-12")

	assert.ElementsMatch(t, []model.SessionID{"83診", "82診", "102診", "105診"}, usage.Rules)
	assert.Equal(t, []string{"2025-03-03", "2025-03-04"}, usage.ScheduleDates)
	assert.False(t, w.TimeSlotUsage(model.Night, "6-10").InUse())
}

func TestSaveTimeSlots(t *testing.T) {
	w := openWorkspace(t, newMockStore())

	err := w.SaveTimeSlots(model.TimeSlotCatalogue{"EVENING": {"7-9"}})
	assert.ErrorIs(t, err, ErrInvalidShiftTypes)

	require.NoError(t, w.SaveTimeSlots(model.TimeSlotCatalogue{model.Morning: {"8-12", " 8-12", "7-11"}}))
	assert.Equal(t, model.TimeSlotCatalogue{model.Morning: {"8-12", "7-11"}}, w.State().TimeSlots)
}

func TestSaveVisibleShifts(t *testing.T) {
	w := openWorkspace(t, newMockStore())

	require.NoError(t, w.SaveVisibleShifts([]model.ShiftType{model.Night, model.Morning}))
	assert.Equal(t, []model.ShiftType{model.Morning, model.Night}, w.State().VisibleShifts)

	assert.ErrorIs(t, w.SaveVisibleShifts([]model.ShiftType{"LUNCH"}), ErrInvalidShiftTypes)
}

func TestAssignDoctor_ReplacesConflicts(t *testing.T) {
	w := openWorkspace(t, newMockStore())

	first, err := w.AssignDoctor("71", model.Morning, []int{1, 2}, "Dr.高")
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.NotEqual(t, first[0].ID, first[1].ID)
	assert.Equal(t, model.SessionID("71診"), first[0].SessionID)

	_, err = w.AssignDoctor("71診", model.Morning, []int{2, 3}, "Dr.林")
	require.NoError(t, err)

	assert.Len(t, w.State().ShiftDoctors, 3)
	assert.Equal(t, []string{"Dr.高"}, w.DoctorsFor("71", model.Morning, 1))
	assert.Equal(t, []string{"Dr.林"}, w.DoctorsFor("71", model.Morning, 2))
	assert.Empty(t, w.DoctorsFor("71", model.Afternoon, 2))

	require.True(t, w.RemoveDoctor(string(first[0].ID)))
	assert.Len(t, w.State().ShiftDoctors, 2)
	assert.False(t, w.RemoveDoctor("missing"))
}

func TestAssignDoctor_Rejects(t *testing.T) {
	w := openWorkspace(t, newMockStore())

	_, err := w.AssignDoctor("71", model.Morning, nil, "Dr.高")
	assert.Error(t, err)
	_, err = w.AssignDoctor("71", model.Morning, []int{7}, "Dr.高")
	assert.Error(t, err)
	_, err = w.AssignDoctor("71", model.Morning, []int{1}, " ")
	assert.Error(t, err)
}
