package state

import (
	"slices"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
)

// AllWeeks is the week frequency given to rules that do not specify one
var AllWeeks = []int{1, 2, 3, 4, 5}

func DefaultSkills() []string {
	return []string{"超音波", "拆線", "石膏", "Dr.高", "其他"}
}

func DefaultTimeSlots() model.TimeSlotCatalogue {
	return model.TimeSlotCatalogue{
		model.Morning:   {"8-12", "8'-12'", "9-1"},
		model.Afternoon: {"12'-4'", "1-5", "1'-5'", "2-5", "2-6"},
		model.Night:     {"5-9", "5'-9'", "6-9", "6-10"},
	}
}

func DefaultVisibleShifts() []model.ShiftType {
	return slices.Clone(model.AllShiftTypes)
}

var primeSessions = []model.SessionID{
	"71診", "72診", "73診", "74診", "76診",
	"78診", "79診", "80診", "84診", "94診",
	"95診", "97診", "98診",
}

func DefaultRules() []model.ShiftRule {
	rules := []model.ShiftRule{
		{ID: 7, SessionID: "83診", Capacity: 1, ShiftType: model.Morning, TimeSlot: "8-12", Days: []int{1}, RequiredSkills: []string{"拆線"}},
		{ID: 8, SessionID: "82診", Capacity: 1, ShiftType: model.Morning, TimeSlot: "8-12", Days: []int{1, 2, 3, 4, 5, 6}, RequiredSkills: []string{"石膏"}, WeekFrequency: []int{1, 3}, IsTracked: true},
		{ID: 9, SessionID: "102診", Capacity: 1, ShiftType: model.Morning, TimeSlot: "8-12", Days: []int{4}},
		{ID: 10, SessionID: "105診", Capacity: 2, ShiftType: model.Morning, TimeSlot: "8'-12'", Days: []int{1, 2}, WeekFrequency: []int{2, 4}},
		{ID: 11, SessionID: "105診", Capacity: 1, ShiftType: model.Morning, TimeSlot: "8-12", Days: []int{4}},
	}
	for i, session := range primeSessions {
		rules = append(rules, model.ShiftRule{
			ID:        200 + i,
			SessionID: session,
			Capacity:  1,
			ShiftType: model.Morning,
			TimeSlot:  "8'-12'",
			Days:      []int{1, 2, 3, 4, 5},
		})
	}
	rules = append(rules, model.ShiftRule{
		ID: 400, SessionID: "門診", Capacity: 1, ShiftType: model.Morning, TimeSlot: "9-1", Days: []int{1, 2, 3, 4, 5, 6},
	})
	return NormalizeRules(rules)
}

func DefaultEmployees() []model.Employee {
	return []model.Employee{
		{ID: 1, Name: "王小明", Role: model.RoleFullTime, Skills: []string{"拆線", "石膏"}, MajorShift: "FULL", MainSessionID: "83"},
		{ID: 2, Name: "李大華", Role: model.RoleFullTime, Skills: []string{"石膏", "超音波"}, MajorShift: "FULL"},
		{ID: 3, Name: "陳雅婷", Role: model.RolePartTime, Skills: []string{"拆線"}, MajorShift: "MORNING", MainSessionID: "105"},
		{ID: 4, Name: "張志豪", Role: model.RoleSupport, Skills: []string{}, MajorShift: model.MajorShiftNone},
	}
}

// NormalizeRules fills in the week frequency and skill list of rules that lack them
func NormalizeRules(rules []model.ShiftRule) []model.ShiftRule {
	normalized := make([]model.ShiftRule, len(rules))
	for i, r := range rules {
		if len(r.WeekFrequency) == 0 {
			r.WeekFrequency = slices.Clone(AllWeeks)
		}
		if r.RequiredSkills == nil {
			r.RequiredSkills = []string{}
		}
		normalized[i] = r
	}
	return normalized
}

// Default returns the state a fresh installation starts from
func Default() *AppState {
	return &AppState{
		Employees:     DefaultEmployees(),
		Schedule:      schedule.Schedule{},
		Skills:        DefaultSkills(),
		Rules:         DefaultRules(),
		VisibleShifts: DefaultVisibleShifts(),
		TimeSlots:     DefaultTimeSlots(),
		ShiftDoctors:  []model.DoctorAssignment{},
	}
}
