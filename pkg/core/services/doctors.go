package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

// AssignDoctor records doctorName on session for each weekday. Existing assignments
// for the same session, shift type and weekday are replaced.
func (w *Workspace) AssignDoctor(session model.SessionID, shift model.ShiftType, days []int, doctorName string) ([]model.DoctorAssignment, error) {
	doctorName = strings.TrimSpace(doctorName)
	session = session.WithSuffix()
	if doctorName == "" || session == "" {
		return nil, fmt.Errorf("doctor name and session are required")
	}
	if !shift.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidShiftTypes, shift)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("at least one weekday is required")
	}
	for _, d := range days {
		if d < 1 || d > 6 {
			return nil, fmt.Errorf("weekday %d out of range 1..6", d)
		}
	}

	added := make([]model.DoctorAssignment, 0, len(days))
	for _, d := range days {
		added = append(added, model.DoctorAssignment{
			ID:         model.FlexibleID(uuid.NewString()),
			SessionID:  session,
			ShiftType:  shift,
			DayOfWeek:  d,
			DoctorName: doctorName,
		})
	}

	w.commit("Assign doctor", func(st *state.AppState) *state.AppState {
		kept := slices.DeleteFunc(slices.Clone(st.ShiftDoctors), func(a model.DoctorAssignment) bool {
			return a.SessionID == session && a.ShiftType == shift && slices.Contains(days, a.DayOfWeek)
		})
		return st.WithShiftDoctors(append(kept, added...))
	})
	return added, nil
}

// RemoveDoctor deletes the assignment with id
func (w *Workspace) RemoveDoctor(id string) bool {
	match := func(a model.DoctorAssignment) bool { return string(a.ID) == id }
	return w.commit("Remove doctor", func(st *state.AppState) *state.AppState {
		if !slices.ContainsFunc(st.ShiftDoctors, match) {
			return st
		}
		return st.WithShiftDoctors(slices.DeleteFunc(slices.Clone(st.ShiftDoctors), match))
	})
}

// DoctorsFor lists the doctors running session on weekday
func (w *Workspace) DoctorsFor(session model.SessionID, shift model.ShiftType, weekday int) []string {
	var names []string
	normalized := session.Normalize()
	for _, a := range w.State().ShiftDoctors {
		if a.SessionID.Normalize() == normalized && a.ShiftType == shift && a.DayOfWeek == weekday {
			names = append(names, a.DoctorName)
		}
	}
	return names
}
