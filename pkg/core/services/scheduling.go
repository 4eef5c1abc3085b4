package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/clinicshift/shift-scheduler/pkg/core/assignment"
	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/reports"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

// SetEntry writes a session label or OFF state into a cell
func (w *Workspace) SetEntry(k schedule.Key, label, memo string) bool {
	engine := w.Engine()
	return w.commit("Update shift", func(st *state.AppState) *state.AppState {
		return engine.SetEntry(st, k, label, memo)
	})
}

// ClearEntry empties a cell, or the whole day when it held an OFF state
func (w *Workspace) ClearEntry(k schedule.Key) bool {
	engine := w.Engine()
	return w.commit("Clear shift", func(st *state.AppState) *state.AppState {
		return engine.ClearEntry(st, k)
	})
}

// Erase applies the eraser tool to a cell
func (w *Workspace) Erase(k schedule.Key) bool {
	engine := w.Engine()
	return w.commit("Quick erase", func(st *state.AppState) *state.AppState {
		return engine.Erase(st, k)
	})
}

// Paint fills a cell from the employee's main session. NeedsSelection means the
// caller should fall back to choosing a session.
func (w *Workspace) Paint(k schedule.Key) assignment.PaintOutcome {
	engine := w.Engine()
	outcome := assignment.NeedsSelection
	w.commit("Quick fill", func(st *state.AppState) *state.AppState {
		next, o := engine.Paint(st, k)
		outcome = o
		return next
	})
	return outcome
}

// Move drags a cell onto another of the same shift type, swapping when occupied
func (w *Workspace) Move(from, to schedule.Key) (assignment.MoveResult, error) {
	next, result, err := w.Engine().Move(w.State(), from, to)
	if err != nil {
		if assignment.IsRejection(err) {
			w.logger.Debug("Move rejected",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
				zap.Error(err))
		}
		return result, err
	}
	w.history.Replace(result.Label, next)
	return result, nil
}

// Candidates lists the sessions that may be offered for a cell under timeSlot
func (w *Workspace) Candidates(k schedule.Key, timeSlot string) ([]assignment.SessionOption, error) {
	options, err := w.Engine().Candidates(w.State(), k, timeSlot)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return options, nil
}

// SessionCount counts the cells on date holding fullKey
func (w *Workspace) SessionCount(date, fullKey string) int {
	return assignment.SessionCount(w.State().Schedule, date, fullKey)
}

func (w *Workspace) TrackedCount(employeeID int, shift model.ShiftType, timeSlot string, session model.SessionID) assignment.TrackedUsage {
	return w.Engine().TrackedCount(w.State(), employeeID, shift, timeSlot, session)
}

// MissingShifts reports under-filled sessions for the displayed week
func (w *Workspace) MissingShifts() (reports.MissingReport, error) {
	days, err := w.WeekDays()
	if err != nil {
		return nil, fmt.Errorf("failed to list week days: %w", err)
	}
	return reports.MissingShifts(w.State(), w.Index(), days, w.month, w.closures.IsClosed), nil
}

// MissingShiftsForMonth reports under-filled sessions for every day of the scheduling month
func (w *Workspace) MissingShiftsForMonth() (reports.MissingReport, error) {
	days, err := calendar.MonthDays(w.month)
	if err != nil {
		return nil, fmt.Errorf("failed to list month days: %w", err)
	}
	return reports.MissingShifts(w.State(), w.Index(), days, w.month, w.closures.IsClosed), nil
}

// TrackingReport counts tracked sessions per employee in the scheduling month
func (w *Workspace) TrackingReport() reports.TrackingReport {
	return reports.Tracking(w.State(), w.month)
}
