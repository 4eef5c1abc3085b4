package assignment

import (
	"fmt"

	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/rules"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

type MoveKind int

const (
	Moved MoveKind = iota
	Swapped
)

// MoveResult describes an accepted move
type MoveResult struct {
	Kind  MoveKind
	Label string
}

// Move drags the value of from onto to within one shift type. An occupied destination
// swaps the two values. Sessions are checked against the date they land on; sessions
// without a rule are not restricted.
func (e *Engine) Move(st *state.AppState, from, to schedule.Key) (*state.AppState, MoveResult, error) {
	if from == to {
		return st, MoveResult{}, &Rejection{Reason: SameCell}
	}
	if from.Shift != to.Shift {
		return st, MoveResult{}, &Rejection{Reason: ShiftTypeMismatch}
	}

	src, ok := st.Schedule[from]
	if !ok {
		return st, MoveResult{}, &Rejection{Reason: EmptySource}
	}
	dst, occupied := st.Schedule[to]

	if err := e.checkLanding(src, to.Date); err != nil {
		return st, MoveResult{}, err
	}
	if occupied {
		if err := e.checkLanding(dst, from.Date); err != nil {
			return st, MoveResult{}, err
		}
	}

	// Both ends go through the whole-day rule: an OFF leaving clears its day, an
	// OFF landing covers the destination day.
	sc := st.Schedule.Clone()
	schedule.ClearCell(sc, from)
	if occupied {
		schedule.ClearCell(sc, to)
		schedule.ApplyWholeDayRule(sc, to, src)
		schedule.ApplyWholeDayRule(sc, from, dst)
		return st.WithSchedule(sc), MoveResult{
			Kind:  Swapped,
			Label: fmt.Sprintf("Swap shifts: %s <-> %s", describe(from), describe(to)),
		}, nil
	}

	schedule.ApplyWholeDayRule(sc, to, src)
	return st.WithSchedule(sc), MoveResult{
		Kind:  Moved,
		Label: fmt.Sprintf("Move shift: %s -> %s", describe(from), describe(to)),
	}, nil
}

// checkLanding validates the session carried by entry against date
func (e *Engine) checkLanding(entry schedule.Entry, date string) error {
	session, ok := entry.SessionID()
	if !ok {
		return nil
	}
	allowed, err := e.SessionAllowedOn(session, date)
	if err != nil {
		return err
	}
	if !allowed {
		return &Rejection{Reason: RuleViolation, Session: session, Date: date}
	}
	return nil
}

// SessionAllowedOn reports whether the rule for session is active on date
func (e *Engine) SessionAllowedOn(session model.SessionID, date string) (bool, error) {
	rule, ok := e.Index.BySession(session)
	if !ok {
		return true, nil
	}
	d, err := calendar.ParseDate(date)
	if err != nil {
		return false, err
	}
	return rules.IsRuleActiveOn(rule, d, e.Month), nil
}

func describe(k schedule.Key) string {
	return fmt.Sprintf("%s #%d", k.Date, k.EmployeeID)
}
