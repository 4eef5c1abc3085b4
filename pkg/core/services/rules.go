package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/rules"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateRule checks a rule's session, capacity, shift type, days and week frequency
func ValidateRule(rule model.ShiftRule) error {
	if err := validate.Struct(rule); err != nil {
		return fmt.Errorf("%w %s: %w", ErrInvalidRule, rule.SessionID, err)
	}
	return nil
}

// prepareRule completes a bare numeric session id and clamps capacity into range
func prepareRule(rule model.ShiftRule) model.ShiftRule {
	rule.SessionID = rule.SessionID.WithSuffix()
	rule.TimeSlot = strings.TrimSpace(rule.TimeSlot)
	rule.Capacity = min(max(rule.Capacity, 1), 5)
	rule.Days = slices.Compact(slices.Sorted(slices.Values(rule.Days)))
	rule.WeekFrequency = slices.Compact(slices.Sorted(slices.Values(rule.WeekFrequency)))
	if rule.RequiredSkills == nil {
		rule.RequiredSkills = []string{}
	}
	return rule
}

// SaveRules replaces the rule list after validating every rule
func (w *Workspace) SaveRules(list []model.ShiftRule) error {
	prepared := make([]model.ShiftRule, len(list))
	for i, r := range list {
		prepared[i] = prepareRule(r)
		if err := ValidateRule(prepared[i]); err != nil {
			return err
		}
	}

	if dups := rules.NewIndex(prepared).Duplicates(); len(dups) > 0 {
		w.logger.Warn("Session ids defined by more than one rule, the last definition wins",
			zap.Strings("sessions", sessionStrings(dups)))
	}

	w.commit("Update shift rules", func(st *state.AppState) *state.AppState {
		return st.WithRules(prepared)
	})
	return nil
}

// AddRule appends a rule with the next free id
func (w *Workspace) AddRule(rule model.ShiftRule) (model.ShiftRule, error) {
	rule = prepareRule(rule)
	if err := ValidateRule(rule); err != nil {
		return model.ShiftRule{}, err
	}

	maxID := 0
	for _, r := range w.State().Rules {
		maxID = max(maxID, r.ID)
	}
	rule.ID = maxID + 1

	if _, exists := w.Index().BySession(rule.SessionID); exists {
		w.logger.Warn("Session id already defined, the new rule replaces it in lookups",
			zap.String("session", rule.SessionID.String()))
	}

	w.commit("Add shift rule", func(st *state.AppState) *state.AppState {
		return st.WithRules(append(slices.Clone(st.Rules), rule))
	})
	return rule, nil
}

// DeleteRule removes the rule with id
func (w *Workspace) DeleteRule(id int) bool {
	return w.commit("Delete shift rule", func(st *state.AppState) *state.AppState {
		if !slices.ContainsFunc(st.Rules, func(r model.ShiftRule) bool { return r.ID == id }) {
			return st
		}
		return st.WithRules(slices.DeleteFunc(slices.Clone(st.Rules), func(r model.ShiftRule) bool { return r.ID == id }))
	})
}

func sessionStrings(sessions []model.SessionID) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.String()
	}
	return out
}
