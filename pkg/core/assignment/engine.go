package assignment

import (
	"maps"
	"strings"
	"time"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/rules"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

// Engine computes schedule transitions. Every method is pure: it returns a new
// state, or the given state itself when nothing changes.
type Engine struct {
	Index *rules.Index
	// Month is the scheduling month that week-of-month is counted against
	Month time.Time
}

func NewEngine(index *rules.Index, month time.Time) *Engine {
	return &Engine{Index: index, Month: month}
}

// SetEntry writes label (a session label, OFF or OFF_CONFIRMED) into a cell
func (e *Engine) SetEntry(st *state.AppState, k schedule.Key, label, memo string) *state.AppState {
	sc := st.Schedule.Clone()
	schedule.ApplyWholeDayRule(sc, k, schedule.NewEntry(label, memo))
	return withSchedule(st, sc)
}

// ClearEntry removes a cell, or the employee's whole day if the cell was OFF
func (e *Engine) ClearEntry(st *state.AppState, k schedule.Key) *state.AppState {
	if _, ok := st.Schedule[k]; !ok {
		return st
	}
	sc := st.Schedule.Clone()
	schedule.ClearCell(sc, k)
	return st.WithSchedule(sc)
}

// Erase is the eraser tool; it follows the same whole-day rule as ClearEntry
func (e *Engine) Erase(st *state.AppState, k schedule.Key) *state.AppState {
	return e.ClearEntry(st, k)
}

type PaintOutcome int

const (
	Painted PaintOutcome = iota
	// NeedsSelection means no session could be derived and the caller should ask
	NeedsSelection
)

func (o PaintOutcome) String() string {
	if o == Painted {
		return "painted"
	}
	return "needs selection"
}

// Paint fills a cell from the employee's main session when a rule for it exists
// under the cell's shift type.
func (e *Engine) Paint(st *state.AppState, k schedule.Key) (*state.AppState, PaintOutcome) {
	label, ok := e.PaintLabel(st, k)
	if !ok {
		return st, NeedsSelection
	}
	sc := st.Schedule.Clone()
	schedule.ApplyWholeDayRule(sc, k, schedule.Entry{Label: label})
	return withSchedule(st, sc), Painted
}

// PaintLabel returns the label Paint would write into k
func (e *Engine) PaintLabel(st *state.AppState, k schedule.Key) (string, bool) {
	emp, ok := st.Employee(k.EmployeeID)
	if !ok || emp.MainSessionID.Normalize() == "" {
		return "", false
	}
	rule, ok := e.Index.ByShiftAndSession(k.Shift, emp.MainSessionID)
	if !ok {
		return "", false
	}
	return model.FullShiftKey(k.Shift, rule.TimeSlot, emp.MainSessionID), true
}

// SessionCount counts the cells on date whose label starts with fullKey
func (e *Engine) SessionCount(st *state.AppState, date, fullKey string) int {
	return SessionCount(st.Schedule, date, fullKey)
}

// SessionCount counts the cells on date whose label starts with fullKey, across
// every employee and shift type.
func SessionCount(sc schedule.Schedule, date, fullKey string) int {
	count := 0
	for k, entry := range sc {
		if k.Date == date && strings.HasPrefix(entry.Label, fullKey) {
			count++
		}
	}
	return count
}

func withSchedule(st *state.AppState, sc schedule.Schedule) *state.AppState {
	if maps.Equal(sc, st.Schedule) {
		return st
	}
	return st.WithSchedule(sc)
}
