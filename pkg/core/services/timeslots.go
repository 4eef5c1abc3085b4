package services

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

// TimeSlotUsage lists where a time slot is still referenced
type TimeSlotUsage struct {
	Rules         []model.SessionID
	ScheduleDates []string
}

func (u TimeSlotUsage) InUse() bool {
	return len(u.Rules) > 0 || len(u.ScheduleDates) > 0
}

// SaveTimeSlots replaces the time slot catalogue. Unknown shift types are rejected.
func (w *Workspace) SaveTimeSlots(catalogue model.TimeSlotCatalogue) error {
	cleaned := make(model.TimeSlotCatalogue, len(catalogue))
	for shift, slots := range catalogue {
		if !shift.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidShiftTypes, shift)
		}
		list := make([]string, 0, len(slots))
		for _, s := range slots {
			s = strings.TrimSpace(s)
			if s != "" && !slices.Contains(list, s) {
				list = append(list, s)
			}
		}
		cleaned[shift] = list
	}

	w.commit("Update time slots", func(st *state.AppState) *state.AppState {
		if maps.EqualFunc(st.TimeSlots, cleaned, slices.Equal) {
			return st
		}
		return st.WithTimeSlots(cleaned)
	})
	return nil
}

// TimeSlotUsage reports the rules under (shift, slot) and the dates with entries using it
func (w *Workspace) TimeSlotUsage(shift model.ShiftType, timeSlot string) TimeSlotUsage {
	st := w.State()
	var usage TimeSlotUsage
	for _, r := range st.Rules {
		if r.ShiftType == shift && r.TimeSlot == timeSlot {
			usage.Rules = append(usage.Rules, r.SessionID)
		}
	}

	dates := map[string]struct{}{}
	for k, entry := range st.Schedule {
		entryShift, slot, _, ok := model.SplitShiftKey(entry.Label)
		if ok && entryShift == shift && slot == timeSlot {
			dates[k.Date] = struct{}{}
		}
	}
	usage.ScheduleDates = slices.Sorted(maps.Keys(dates))
	return usage
}

// SaveVisibleShifts sets the shift types shown in the grid, kept in canonical order
func (w *Workspace) SaveVisibleShifts(shifts []model.ShiftType) error {
	for _, s := range shifts {
		if !s.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidShiftTypes, s)
		}
	}
	visible := make([]model.ShiftType, 0, len(shifts))
	for _, s := range model.AllShiftTypes {
		if slices.Contains(shifts, s) {
			visible = append(visible, s)
		}
	}

	w.commit("Update visible shifts", func(st *state.AppState) *state.AppState {
		if slices.Equal(st.VisibleShifts, visible) {
			return st
		}
		return st.WithVisibleShifts(visible)
	})
	return nil
}
