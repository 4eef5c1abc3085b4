package assignment

import (
	"errors"
	"fmt"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
)

type Reason string

const (
	ShiftTypeMismatch Reason = "shift_type_mismatch"
	SameCell          Reason = "same_cell"
	RuleViolation     Reason = "rule_violation"
	EmptySource       Reason = "empty_source"
)

// Rejection is returned when a move is declined. State is never modified.
type Rejection struct {
	Reason  Reason
	Session model.SessionID
	Date    string
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ShiftTypeMismatch:
		return "shifts can only be moved between cells of the same shift type"
	case SameCell:
		return "source and destination are the same cell"
	case EmptySource:
		return "source cell is empty"
	case RuleViolation:
		return fmt.Sprintf("%s is not scheduled on %s", r.Session, r.Date)
	default:
		return string(r.Reason)
	}
}

// IsRejection reports whether err is a declined move
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}
