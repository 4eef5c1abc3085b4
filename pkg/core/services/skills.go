package services

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

// SkillUsage lists where a skill is still referenced
type SkillUsage struct {
	Employees []string
	Rules     []model.SessionID
}

func (u SkillUsage) InUse() bool {
	return len(u.Employees) > 0 || len(u.Rules) > 0
}

// SaveSkills replaces the skill list. Blank and repeated names are dropped.
func (w *Workspace) SaveSkills(skills []string) bool {
	cleaned := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s != "" && !slices.Contains(cleaned, s) {
			cleaned = append(cleaned, s)
		}
	}
	return w.commit("Update skills", func(st *state.AppState) *state.AppState {
		if slices.Equal(st.Skills, cleaned) {
			return st
		}
		return st.WithSkills(cleaned)
	})
}

// SkillUsage reports the employees holding skill and the rules requiring it
func (w *Workspace) SkillUsage(skill string) SkillUsage {
	st := w.State()
	var usage SkillUsage
	for _, e := range st.Employees {
		if slices.Contains(e.Skills, skill) {
			usage.Employees = append(usage.Employees, e.Name)
		}
	}
	for _, r := range st.Rules {
		if slices.Contains(r.RequiredSkills, skill) {
			usage.Rules = append(usage.Rules, r.SessionID)
		}
	}
	return usage
}

// DeleteSkill removes an unused skill. A skill still in use is only removed by ForceDeleteSkill.
func (w *Workspace) DeleteSkill(skill string) error {
	if usage := w.SkillUsage(skill); usage.InUse() {
		return fmt.Errorf("skill %q is used by %d employees and %d rules", skill, len(usage.Employees), len(usage.Rules))
	}
	w.commit(fmt.Sprintf("Delete skill %q", skill), func(st *state.AppState) *state.AppState {
		return st.WithSkills(without(st.Skills, skill))
	})
	return nil
}

// ForceDeleteSkill removes a skill from the list, every employee and every rule in one step
func (w *Workspace) ForceDeleteSkill(skill string) bool {
	usage := w.SkillUsage(skill)
	changed := w.commit(fmt.Sprintf("Force delete skill %q", skill), func(st *state.AppState) *state.AppState {
		if !slices.Contains(st.Skills, skill) && !usage.InUse() {
			return st
		}
		employees := slices.Clone(st.Employees)
		for i := range employees {
			employees[i].Skills = without(employees[i].Skills, skill)
		}
		rules := slices.Clone(st.Rules)
		for i := range rules {
			rules[i].RequiredSkills = without(rules[i].RequiredSkills, skill)
		}
		return st.WithSkills(without(st.Skills, skill)).WithEmployees(employees).WithRules(rules)
	})
	if changed {
		w.logger.Info("Force deleted skill",
			zap.String("skill", skill),
			zap.Int("employees", len(usage.Employees)),
			zap.Int("rules", len(usage.Rules)))
	}
	return changed
}

// without returns a copy of list lacking item, never nil
func without(list []string, item string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != item {
			out = append(out, s)
		}
	}
	return out
}
