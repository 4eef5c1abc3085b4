package state

import (
	"slices"
	"sort"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
)

// AppState is the whole application state tracked by history. It is treated as
// immutable: every change builds a new AppState sharing the untouched collections.
type AppState struct {
	Employees     []model.Employee
	Schedule      schedule.Schedule
	Skills        []string
	Rules         []model.ShiftRule
	VisibleShifts []model.ShiftType
	TimeSlots     model.TimeSlotCatalogue
	ShiftDoctors  []model.DoctorAssignment
}

func (s *AppState) clone() *AppState {
	next := *s
	return &next
}

func (s *AppState) WithSchedule(sc schedule.Schedule) *AppState {
	next := s.clone()
	next.Schedule = sc
	return next
}

func (s *AppState) WithEmployees(employees []model.Employee) *AppState {
	next := s.clone()
	next.Employees = employees
	return next
}

func (s *AppState) WithSkills(skills []string) *AppState {
	next := s.clone()
	next.Skills = skills
	return next
}

func (s *AppState) WithRules(rules []model.ShiftRule) *AppState {
	next := s.clone()
	next.Rules = rules
	return next
}

func (s *AppState) WithVisibleShifts(shifts []model.ShiftType) *AppState {
	next := s.clone()
	next.VisibleShifts = shifts
	return next
}

func (s *AppState) WithTimeSlots(slots model.TimeSlotCatalogue) *AppState {
	next := s.clone()
	next.TimeSlots = slots
	return next
}

func (s *AppState) WithShiftDoctors(doctors []model.DoctorAssignment) *AppState {
	next := s.clone()
	next.ShiftDoctors = doctors
	return next
}

// Employee finds an employee by id, active or not
func (s *AppState) Employee(id int) (model.Employee, bool) {
	idx := slices.IndexFunc(s.Employees, func(e model.Employee) bool { return e.ID == id })
	if idx < 0 {
		return model.Employee{}, false
	}
	return s.Employees[idx], true
}

// ActiveEmployees returns active employees ordered by display order, then id
func (s *AppState) ActiveEmployees() []model.Employee {
	var active []model.Employee
	for _, e := range s.Employees {
		if e.Active() {
			active = append(active, e)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].DisplayOrder != active[j].DisplayOrder {
			return active[i].DisplayOrder < active[j].DisplayOrder
		}
		return active[i].ID < active[j].ID
	})
	return active
}
