package services

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

// AddEmployee appends a new employee with the next free id. Role defaults to full-time.
func (w *Workspace) AddEmployee(name string, role model.Role) (model.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Employee{}, fmt.Errorf("employee name must not be empty")
	}
	if role == "" {
		role = model.RoleFullTime
	}
	if !role.IsValid() {
		return model.Employee{}, fmt.Errorf("unknown role %q", role)
	}

	employees := w.State().Employees
	emp := model.Employee{
		ID:           nextEmployeeID(employees),
		Name:         name,
		Role:         role,
		DisplayOrder: len(employees),
		Skills:       []string{},
		MajorShift:   model.MajorShiftNone,
	}

	w.commit("Add employee", func(st *state.AppState) *state.AppState {
		return st.WithEmployees(append(slices.Clone(st.Employees), emp))
	})
	w.logger.Info("Added employee", zap.Int("id", emp.ID), zap.String("name", emp.Name))
	return emp, nil
}

func nextEmployeeID(employees []model.Employee) int {
	maxID := 0
	for _, e := range employees {
		maxID = max(maxID, e.ID)
	}
	return maxID + 1
}

// UpdateEmployee replaces the stored record with the same id
func (w *Workspace) UpdateEmployee(updated model.Employee) error {
	st := w.State()
	if _, ok := st.Employee(updated.ID); !ok {
		return fmt.Errorf("%w: %d", ErrEmployeeNotFound, updated.ID)
	}
	if !updated.Role.IsValid() {
		return fmt.Errorf("unknown role %q", updated.Role)
	}
	if err := checkMainSession(st.Employees, updated.ID, updated.MainSessionID); err != nil {
		return err
	}

	w.commit("Edit employee", func(st *state.AppState) *state.AppState {
		return st.WithEmployees(replaceEmployee(st.Employees, updated))
	})
	return nil
}

// DeleteEmployee removes an employee and every schedule entry they hold in one step
func (w *Workspace) DeleteEmployee(id int) error {
	if _, ok := w.State().Employee(id); !ok {
		return fmt.Errorf("%w: %d", ErrEmployeeNotFound, id)
	}

	removed := 0
	w.commit("Delete employee", func(st *state.AppState) *state.AppState {
		employees := slices.DeleteFunc(slices.Clone(st.Employees), func(e model.Employee) bool { return e.ID == id })
		sc, n := st.Schedule.PurgeEmployee(id)
		removed = n
		return st.WithEmployees(employees).WithSchedule(sc)
	})
	w.logger.Info("Deleted employee", zap.Int("id", id), zap.Int("schedule_entries_removed", removed))
	return nil
}

// SetEmployeeActive soft-deletes or restores an employee; their schedule is kept
func (w *Workspace) SetEmployeeActive(id int, active bool) error {
	emp, ok := w.State().Employee(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrEmployeeNotFound, id)
	}
	if emp.Active() == active {
		return nil
	}
	emp.IsActive = &active

	label := "Deactivate employee"
	if active {
		label = "Reactivate employee"
	}
	w.commit(label, func(st *state.AppState) *state.AppState {
		return st.WithEmployees(replaceEmployee(st.Employees, emp))
	})
	return nil
}

// ReorderEmployees assigns display order following ids. Employees not listed keep
// their relative order after the listed ones.
func (w *Workspace) ReorderEmployees(ids []int) error {
	st := w.State()
	for _, id := range ids {
		if _, ok := st.Employee(id); !ok {
			return fmt.Errorf("%w: %d", ErrEmployeeNotFound, id)
		}
	}

	w.commit("Reorder employees", func(st *state.AppState) *state.AppState {
		employees := slices.Clone(st.Employees)
		position := func(id int) int {
			if i := slices.Index(ids, id); i >= 0 {
				return i
			}
			return len(ids)
		}
		slices.SortStableFunc(employees, func(a, b model.Employee) int {
			return position(a.ID) - position(b.ID)
		})
		for i := range employees {
			employees[i].DisplayOrder = i
		}
		return st.WithEmployees(employees)
	})
	return nil
}

// SetMajorShift updates an employee's default shift descriptor and main session.
// A non-empty main session may belong to one employee only.
func (w *Workspace) SetMajorShift(id int, majorShift string, mainSession model.SessionID) error {
	st := w.State()
	emp, ok := st.Employee(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrEmployeeNotFound, id)
	}
	if majorShift == "" {
		majorShift = model.MajorShiftNone
	}
	if !model.IsKnownMajorShift(majorShift) {
		return fmt.Errorf("unknown major shift %q", majorShift)
	}
	mainSession = model.SessionID(strings.TrimSpace(string(mainSession)))
	if err := checkMainSession(st.Employees, id, mainSession); err != nil {
		return err
	}

	emp.MajorShift = majorShift
	emp.MainSessionID = mainSession
	w.commit("Update main session", func(st *state.AppState) *state.AppState {
		return st.WithEmployees(replaceEmployee(st.Employees, emp))
	})
	return nil
}

// checkMainSession rejects a main session already held by another employee
func checkMainSession(employees []model.Employee, id int, session model.SessionID) error {
	normalized := session.Normalize()
	if normalized == "" {
		return nil
	}
	for _, e := range employees {
		if e.ID != id && e.MainSessionID.Normalize() == normalized {
			return fmt.Errorf("%w: %s is held by %s", ErrMainSessionTaken, session, e.Name)
		}
	}
	return nil
}

func replaceEmployee(employees []model.Employee, updated model.Employee) []model.Employee {
	next := slices.Clone(employees)
	for i := range next {
		if next[i].ID == updated.ID {
			next[i] = updated
		}
	}
	return next
}
